package services

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ContractData carries everything the lease template needs.
type ContractData struct {
	LandlordName string
	LandlordID   string
	TenantName   string
	TenantID     string
	Address      string
	Description  string
	MonthlyPrice float64
	StartDate    time.Time
	EndDate      time.Time
}

var spanishMonths = []string{"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// Lease template. Placeholder tokens are substituted by name; **bold** spans
// are rendered in bold.
const contractTemplate = `En la ciudad de CIUDAD, a los DIAS días del mes de MES del año ANIO, se celebra el presente contrato de arrendamiento entre los siguientes comparecientes:

Por una parte, el señor(a) **NOMBRE_ARRENDADOR**, con cédula de ciudadanía número **NUMERO_DE_CEDULA**, a quien en adelante se le denominará **EL ARRENDADOR**; y por otra parte, el señor(a) **NOMBRE_ARRENDATARIO**, con cédula de ciudadanía número **NUMERO_CED**, a quien en adelante se le denominará **EL ARRENDATARIO**.

**PRIMERA - OBJETO:** EL ARRENDADOR da en arrendamiento a EL ARRENDATARIO el inmueble ubicado en DIRECCION, cantón CANTON, provincia de PROVINCIA, cuya descripción es la siguiente: DESCRIPCION.

**SEGUNDA - CANON DE ARRENDAMIENTO:** El canon mensual de arrendamiento se fija en la suma de VALOR_ARRIENDO_EN_PALABRAS (USD VALOR_DE_ARRIENDO_EN_NUMEROS), que EL ARRENDATARIO pagará por mensualidades anticipadas dentro de los cinco primeros días de cada mes, mediante depósito o transferencia a la cuenta número NUMERO_CUENTA del NOMBRE_BANCO.

**TERCERA - PLAZO:** El plazo de duración del presente contrato es de DURACION_TEXTO, contado a partir de la fecha de suscripción.

**CUARTA - GARANTÍA:** A la firma del presente contrato, EL ARRENDATARIO entrega a EL ARRENDADOR la suma de VALOR_GARANTIA_EN_PALABRAS (USD VALOR_GARANTIA_EN_NUMEROS) en calidad de garantía, valor que será devuelto al término del contrato previa verificación del estado del inmueble.

**QUINTA - DESTINO:** El inmueble arrendado será destinado exclusivamente a vivienda de EL ARRENDATARIO y su familia, quedando prohibido darle un uso distinto sin autorización escrita de EL ARRENDADOR.

**SEXTA - SERVICIOS:** Los valores por consumo de servicios básicos serán asumidos por EL ARRENDATARIO, salvo aquellos expresamente incluidos en el canon de arrendamiento.

**SÉPTIMA - CONSERVACIÓN:** EL ARRENDATARIO se obliga a conservar el inmueble en buen estado y a reportar oportunamente los daños que requieran reparación.

**OCTAVA - CONTROVERSIAS:** Para todo lo no previsto en este contrato, las partes se someten a lo dispuesto en la Ley de Inquilinato y demás normas aplicables de la República del Ecuador.

Para constancia de lo acordado, firman las partes en dos ejemplares de igual tenor y valor.`

// buildReplacements maps template tokens to their values.
func buildReplacements(data ContractData) map[string]string {
	now := time.Now()
	days := int(math.Ceil(data.EndDate.Sub(data.StartDate).Hours() / 24))

	return map[string]string{
		"CIUDAD":                       "Portoviejo",
		"DIAS":                         fmt.Sprintf("%d", now.Day()),
		"MES":                          spanishMonths[int(now.Month())-1],
		"ANIO":                         fmt.Sprintf("%d", now.Year()),
		"NOMBRE_ARRENDADOR":            data.LandlordName,
		"NOMBRE_ARRENDATARIO":          data.TenantName,
		"NUMERO_DE_CEDULA":             data.LandlordID,
		"NUMERO_CED":                   data.TenantID,
		"DIRECCION":                    data.Address,
		"CANTON":                       "Portoviejo",
		"PROVINCIA":                    "Manabí",
		"DESCRIPCION":                  data.Description,
		"VALOR_ARRIENDO_EN_PALABRAS":   AmountInWords(data.MonthlyPrice),
		"VALOR_DE_ARRIENDO_EN_NUMEROS": fmt.Sprintf("%.2f", data.MonthlyPrice),
		"VALOR_GARANTIA_EN_PALABRAS":   AmountInWords(data.MonthlyPrice),
		"VALOR_GARANTIA_EN_NUMEROS":    fmt.Sprintf("%.2f", data.MonthlyPrice),
		"NUMERO_CUENTA":                "XXXXXXXXXX",
		"NOMBRE_BANCO":                 "BANCO GENÉRICO",
		"DURACION_TEXTO":               DurationInWords(days),
	}
}

var boldSpan = regexp.MustCompile(`\*\*(.*?)\*\*`)

// RenderContractPDF produces the paginated lease document: header image (when
// CONTRACT_LOGO_PATH points to a file), substituted body and a two-column
// signature block.
func RenderContractPDF(data ContractData) ([]byte, error) {
	content := contractTemplate
	for key, value := range buildReplacements(data) {
		// Word boundaries keep MES from matching inside NUMEROS etc.
		re := regexp.MustCompile(`\b` + key + `\b`)
		content = re.ReplaceAllString(content, value)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 35, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	logoPath := os.Getenv("CONTRACT_LOGO_PATH")
	pdf.SetHeaderFunc(func() {
		if logoPath == "" {
			return
		}
		if _, err := os.Stat(logoPath); err == nil {
			pdf.ImageOptions(logoPath, 20, 8, 40, 0, false, gofpdf.ImageOptions{}, 0, "")
		}
	})
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr("CONTRATO DE ARRENDAMIENTO"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			pdf.Ln(3)
			continue
		}
		writeStyledLine(pdf, tr, line)
		pdf.Ln(2)
	}

	writeSignatureBlock(pdf, tr, data)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeStyledLine renders a paragraph, honoring **bold** spans.
func writeStyledLine(pdf *gofpdf.Fpdf, tr func(string) string, line string) {
	segments := boldSpan.Split(line, -1)
	bolds := boldSpan.FindAllStringSubmatch(line, -1)

	lineHeight := 5.5
	for i, segment := range segments {
		if segment != "" {
			pdf.SetFont("Helvetica", "", 11)
			pdf.Write(lineHeight, tr(segment))
		}
		if i < len(bolds) {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.Write(lineHeight, tr(bolds[i][1]))
		}
	}
	pdf.SetFont("Helvetica", "", 11)
	pdf.Ln(lineHeight)
}

// writeSignatureBlock draws the two signature columns at the end.
func writeSignatureBlock(pdf *gofpdf.Fpdf, tr func(string) string, data ContractData) {
	pdf.Ln(25)

	colWidth := 85.0
	pdf.SetFont("Helvetica", "", 11)

	pdf.CellFormat(colWidth, 6, "_______________________", "", 0, "C", false, 0, "")
	pdf.CellFormat(colWidth, 6, "_______________________", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(colWidth, 6, tr("EL ARRENDADOR"), "", 0, "C", false, 0, "")
	pdf.CellFormat(colWidth, 6, tr("EL ARRENDATARIO"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(colWidth, 5, tr(data.LandlordName), "", 0, "C", false, 0, "")
	pdf.CellFormat(colWidth, 5, tr(data.TenantName), "", 1, "C", false, 0, "")
	pdf.CellFormat(colWidth, 5, tr("C.I. "+data.LandlordID), "", 0, "C", false, 0, "")
	pdf.CellFormat(colWidth, 5, tr("C.I. "+data.TenantID), "", 1, "C", false, 0, "")
}
