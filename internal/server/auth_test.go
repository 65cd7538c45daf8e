package server_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dbforge/mssql-provision-agent/internal/server"
)

var _ = Describe("JWTAuth", func() {
	const secret = "test-secret"

	var router *gin.Engine

	BeforeEach(func() {
		router = gin.New()
		protected := router.Group("/api/v1")
		protected.Use(server.JWTAuth(secret))
		protected.GET("/status", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"state": "ready"})
		})
	})

	request := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	signed := func(secret string, expiry time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "ops",
			"exp": expiry.Unix(),
		})
		raw, err := token.SignedString([]byte(secret))
		Expect(err).NotTo(HaveOccurred())
		return raw
	}

	It("accepts a valid bearer token", func() {
		rec := request("Bearer " + signed(secret, time.Now().Add(time.Hour)))
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("rejects a missing header", func() {
		Expect(request("").Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects a non-bearer header", func() {
		Expect(request("Basic abc").Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects a token signed with another secret", func() {
		rec := request("Bearer " + signed("other-secret", time.Now().Add(time.Hour)))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects an expired token", func() {
		rec := request("Bearer " + signed(secret, time.Now().Add(-time.Hour)))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects an unsigned token", func() {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "ops"})
		raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		Expect(err).NotTo(HaveOccurred())

		rec := request("Bearer " + raw)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})
})
