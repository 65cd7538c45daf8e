package manifest_test

import (
	"bytes"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/dbforge/mssql-provision-agent/internal/manifest"
)

// workbook builds an in-memory .xlsx with the given rows on the first sheet.
func workbook(rows [][]any) io.Reader {
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.SetSheetRow("Sheet1", cell, &row)).To(Succeed())
	}
	var buf bytes.Buffer
	Expect(f.Write(&buf)).To(Succeed())
	return &buf
}

var _ = Describe("Read", func() {
	It("parses a manifest with all columns", func() {
		specs, err := manifest.Read(workbook([][]any{
			{"name", "datasize", "logsize", "perfilesize", "owner", "collation", "querystore"},
			{"sales", "200GB", "20GB", "50GB", "app_svc", "Latin1_General_CI_AS", "true"},
			{"audit", "5GB", "", "", "", "", ""},
		}))

		Expect(err).NotTo(HaveOccurred())
		Expect(specs).To(HaveLen(2))

		Expect(specs[0].Name).To(Equal("sales"))
		Expect(specs[0].DataSizeMB).To(Equal(int64(200 * 1024)))
		Expect(specs[0].LogSizeMB).To(Equal(int64(20 * 1024)))
		Expect(specs[0].PerFileSizeMB).NotTo(BeNil())
		Expect(*specs[0].PerFileSizeMB).To(Equal(int64(50 * 1024)))
		Expect(specs[0].Owner).To(Equal("app_svc"))
		Expect(specs[0].Collation).To(Equal("Latin1_General_CI_AS"))
		Expect(specs[0].QueryStore).To(BeTrue())

		Expect(specs[1].Name).To(Equal("audit"))
		Expect(specs[1].DataSizeMB).To(Equal(int64(5 * 1024)))
		Expect(specs[1].LogSizeMB).To(BeZero())
		Expect(specs[1].PerFileSizeMB).To(BeNil())
		Expect(specs[1].QueryStore).To(BeFalse())
	})

	It("matches columns case-insensitively and ignores extra ones", func() {
		specs, err := manifest.Read(workbook([][]any{
			{"Ticket", "Name", "DataSize", "Requested By"},
			{"OPS-1234", "sales", "1GB", "someone"},
		}))

		Expect(err).NotTo(HaveOccurred())
		Expect(specs).To(HaveLen(1))
		Expect(specs[0].Name).To(Equal("sales"))
		Expect(specs[0].DataSizeMB).To(Equal(int64(1024)))
	})

	It("skips blank rows", func() {
		specs, err := manifest.Read(workbook([][]any{
			{"name", "datasize"},
			{"sales", "1GB"},
			{"", ""},
			{"audit", "2GB"},
		}))

		Expect(err).NotTo(HaveOccurred())
		Expect(specs).To(HaveLen(2))
	})

	It("rejects a manifest without the required columns", func() {
		_, err := manifest.Read(workbook([][]any{
			{"database", "size"},
			{"sales", "1GB"},
		}))

		Expect(err).To(MatchError(ContainSubstring(`missing the "name" column`)))
	})

	It("reports the spreadsheet row of a malformed size", func() {
		_, err := manifest.Read(workbook([][]any{
			{"name", "datasize"},
			{"sales", "1GB"},
			{"audit", "2 GB"},
		}))

		Expect(err).To(MatchError(ContainSubstring("row 3")))
		Expect(err).To(MatchError(ContainSubstring("datasize")))
	})

	It("rejects a nonsense querystore flag", func() {
		_, err := manifest.Read(workbook([][]any{
			{"name", "datasize", "querystore"},
			{"sales", "1GB", "maybe"},
		}))

		Expect(err).To(MatchError(ContainSubstring("querystore")))
	})

	It("rejects a workbook with an empty first sheet", func() {
		f := excelize.NewFile()
		var buf bytes.Buffer
		Expect(f.Write(&buf)).To(Succeed())
		Expect(f.Close()).To(Succeed())

		_, err := manifest.Read(&buf)
		Expect(err).To(MatchError(ContainSubstring("empty")))
	})
})
