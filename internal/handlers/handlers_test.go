package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/dbforge/mssql-provision-agent/api/v1"
	"github.com/dbforge/mssql-provision-agent/internal/config"
	"github.com/dbforge/mssql-provision-agent/internal/handlers"
	"github.com/dbforge/mssql-provision-agent/internal/models"
	"github.com/dbforge/mssql-provision-agent/internal/services"
	"github.com/dbforge/mssql-provision-agent/internal/store"
	"github.com/dbforge/mssql-provision-agent/internal/store/migrations"
	"github.com/dbforge/mssql-provision-agent/pkg/scheduler"
)

// stubAdmin answers the handler-visible slice of the admin surface; the
// provisioning flow itself is covered by the services suite.
type stubAdmin struct {
	volumes    []models.StorageVolume
	volumesErr error
}

func (s *stubAdmin) DatabaseExists(context.Context, string) (bool, error) { return false, nil }
func (s *stubAdmin) EnsureDirectories(context.Context, ...string) error { return nil }
func (s *stubAdmin) CreateDatabase(context.Context, models.DatabaseSpec, models.FilePlan) error {
	return nil
}
func (s *stubAdmin) SetOwner(context.Context, string, string) error        { return nil }
func (s *stubAdmin) EnableQueryStore(context.Context, string) error        { return nil }
func (s *stubAdmin) EnsureLogin(context.Context, string, string) (models.EnsureOutcome, error) {
	return models.EnsureOutcomeCreated, nil
}
func (s *stubAdmin) EnsureUser(context.Context, string, string, string) (models.EnsureOutcome, error) {
	return models.EnsureOutcomeCreated, nil
}
func (s *stubAdmin) EnsureRole(context.Context, string, string) (models.EnsureOutcome, error) {
	return models.EnsureOutcomeCreated, nil
}
func (s *stubAdmin) EnsureRoleMember(context.Context, string, string, string) (models.EnsureOutcome, error) {
	return models.EnsureOutcomeCreated, nil
}
func (s *stubAdmin) QueryVolumes(context.Context) ([]models.StorageVolume, error) {
	return s.volumes, s.volumesErr
}
func (s *stubAdmin) Close() error { return nil }

var _ = Describe("Handlers", func() {
	var (
		router     *gin.Engine
		db         *sql.DB
		st         *store.Store
		sched      *scheduler.Scheduler
		admin      *stubAdmin
		connectErr error
	)

	BeforeEach(func() {
		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(context.Background(), db)).To(Succeed())
		st = store.NewStore(db)

		sched = scheduler.New(1)
		connectErr = nil

		admin = &stubAdmin{
			volumes: []models.StorageVolume{
				{MountPoint: "/var/opt/mssql/data", AvailableMB: 100000, TotalMB: 200000},
				{MountPoint: "/var/opt/mssql/log", AvailableMB: 100000, TotalMB: 200000},
			},
		}

		cfg, err := config.New()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Validate()).To(Succeed())

		planner := services.NewPlanner(cfg.Provisioning)
		principals := services.NewPrincipals("s3cret")
		connect := func(context.Context) (services.Admin, error) {
			if connectErr != nil {
				return nil, connectErr
			}
			return admin, nil
		}
		provisioner := services.NewProvisioner(planner, principals, connect, sched, st)
		history := services.NewHistory(st)

		h := handlers.New(planner, provisioner, history, st, connect)
		router = gin.New()
		router.POST("/api/v1/databases", h.CreateDatabase)
		router.POST("/api/v1/databases/plan", h.PlanDatabase)
		router.GET("/api/v1/provisions", h.GetProvisions)
		router.GET("/api/v1/provisions/:id", h.GetProvision)
		router.GET("/api/v1/status", h.GetStatus)
		router.PUT("/api/v1/credentials", h.PutCredentials)
		router.DELETE("/api/v1/credentials", h.DeleteCredentials)
	})

	AfterEach(func() {
		sched.Close()
		Expect(st.Close()).To(Succeed())
	})

	post := func(path string, body any) *httptest.ResponseRecorder {
		raw, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	Describe("POST /databases", func() {
		It("accepts a valid request with 202 and a run ID", func() {
			rec := post("/api/v1/databases", v1.CreateDatabaseRequest{Name: "sales", DataSize: "5GB"})

			Expect(rec.Code).To(Equal(http.StatusAccepted))
			var resp v1.CreateDatabaseResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.ID).NotTo(BeEmpty())
			Expect(resp.Database).To(Equal("sales"))
		})

		It("rejects a missing name", func() {
			rec := post("/api/v1/databases", v1.CreateDatabaseRequest{DataSize: "5GB"})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects a malformed size literal", func() {
			rec := post("/api/v1/databases", v1.CreateDatabaseRequest{Name: "sales", DataSize: "5 GB"})

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			var resp v1.Error
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Error).To(ContainSubstring("dataSize"))
		})
	})

	Describe("POST /databases/plan", func() {
		It("returns the layout and space checks", func() {
			rec := post("/api/v1/databases/plan", v1.CreateDatabaseRequest{Name: "sales", DataSize: "50GB"})

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp v1.PlanResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Files.FileCount).To(Equal(5))
			Expect(resp.Files.PerFileSize).To(Equal("10GB"))
			Expect(resp.SpaceChecks).To(HaveLen(2))
			Expect(resp.Sufficient).NotTo(BeNil())
			Expect(*resp.Sufficient).To(BeTrue())
		})

		It("still plans when the instance is unreachable", func() {
			connectErr = errors.New("connection refused")

			rec := post("/api/v1/databases/plan", v1.CreateDatabaseRequest{Name: "sales", DataSize: "50GB"})

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp v1.PlanResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Files.FileCount).To(Equal(5))
			Expect(resp.SpaceChecks).To(BeEmpty())
			Expect(resp.Sufficient).To(BeNil())
		})

		It("flags a path outside every reported volume", func() {
			rec := post("/api/v1/databases/plan", v1.CreateDatabaseRequest{
				Name:     "sales",
				DataSize: "50GB",
				DataPath: "/mnt/missing",
			})

			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		})
	})

	Describe("GET /provisions", func() {
		It("pages over the recorded runs", func() {
			rec := post("/api/v1/databases", v1.CreateDatabaseRequest{Name: "sales", DataSize: "1GB"})
			Expect(rec.Code).To(Equal(http.StatusAccepted))

			Eventually(func() int {
				var resp v1.ProvisionList
				rec := get("/api/v1/provisions?pageSize=5")
				Expect(rec.Code).To(Equal(http.StatusOK))
				Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
				return resp.Total
			}).Should(Equal(1))

			var resp v1.ProvisionList
			r := get("/api/v1/provisions?pageSize=5")
			Expect(json.Unmarshal(r.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Page).To(Equal(1))
			Expect(resp.PageSize).To(Equal(5))
			Expect(resp.Provisions).To(HaveLen(1))
			Expect(resp.Provisions[0].Database).To(Equal("sales"))
			Expect(resp.Provisions[0].Outcome).To(Equal("created"))
		})

		It("rejects a malformed startedAfter filter", func() {
			rec := get("/api/v1/provisions?startedAfter=yesterday")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("caps the page size", func() {
			var resp v1.ProvisionList
			rec := get("/api/v1/provisions?pageSize=1000")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.PageSize).To(Equal(100))
		})
	})

	Describe("GET /provisions/:id", func() {
		It("returns a recorded run by its ID", func() {
			rec := post("/api/v1/databases", v1.CreateDatabaseRequest{Name: "billing", DataSize: "1GB"})
			Expect(rec.Code).To(Equal(http.StatusAccepted))
			var created v1.CreateDatabaseResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())

			Eventually(func() int {
				return get("/api/v1/provisions/" + created.ID).Code
			}).Should(Equal(http.StatusOK))

			var prov v1.Provision
			r := get("/api/v1/provisions/" + created.ID)
			Expect(json.Unmarshal(r.Body.Bytes(), &prov)).To(Succeed())
			Expect(prov.ID).To(Equal(created.ID))
			Expect(prov.Database).To(Equal("billing"))
		})

		It("returns 404 for an unknown ID", func() {
			rec := get("/api/v1/provisions/no-such-run")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("PUT /credentials", func() {
		It("stores credentials with the default port", func() {
			raw, err := json.Marshal(v1.CredentialsRequest{Host: "sql01", User: "sa", Password: "secret"})
			Expect(err).NotTo(HaveOccurred())
			req := httptest.NewRequest(http.MethodPut, "/api/v1/credentials", bytes.NewReader(raw))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusNoContent))

			creds, err := st.Credentials().Get(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.Host).To(Equal("sql01"))
			Expect(creds.Port).To(Equal(1433))
		})

		It("clears stored credentials on delete", func() {
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/credentials", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusNoContent))
		})
	})

	Describe("GET /status", func() {
		It("starts out ready", func() {
			var resp v1.Status
			rec := get("/api/v1/status")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.State).To(Equal("ready"))
		})
	})
})
