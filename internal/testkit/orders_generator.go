// Package testkit generates seeded spreadsheet fixtures: one orders sheet
// whose columns cover every cell tag, written as tagged cells, xlsx or CSV.
package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"time"

	"gridimport/domain/ingestion"

	"github.com/xuri/excelize/v2"
)

// OrdersConfig configures the orders generator
type OrdersConfig struct {
	OrderCount int       `json:"order_count"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	BlankRate  float64   `json:"blank_rate"` // share of missing risk scores
	Seed       int64     `json:"seed"`
}

// DefaultOrdersConfig returns sensible defaults for fixture generation
func DefaultOrdersConfig() OrdersConfig {
	return OrdersConfig{
		OrderCount: 50,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		BlankRate:  0.2,
		Seed:       42,
	}
}

// Column ids of the generated sheet, in order
var OrderColumns = []string{
	"order_id", "country", "quantity", "unit_price", "order_date",
	"shipped_at", "marketing_opt_in", "risk_score", "notes",
}

// Order is one generated row
type Order struct {
	ID        string
	Country   string
	Quantity  int
	UnitPrice float64
	OrderDate time.Time
	ShippedAt time.Time
	OptIn     bool
	RiskScore *float64
	Notes     string
}

// OrdersGenerator generates order rows deterministically from a seed
type OrdersGenerator struct {
	config OrdersConfig
	rng    *rand.Rand
}

// NewOrdersGenerator creates a generator
func NewOrdersGenerator(config OrdersConfig) *OrdersGenerator {
	return &OrdersGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces config.OrderCount orders
func (g *OrdersGenerator) Generate() []Order {
	orders := make([]Order, g.config.OrderCount)
	for i := range orders {
		orderDate := g.randomDay()
		orders[i] = Order{
			ID:        fmt.Sprintf("order_%04d", i+1),
			Country:   g.randomCountry(),
			Quantity:  1 + g.rng.Intn(12),
			UnitPrice: math.Round((2+g.rng.Float64()*200)*100) / 100,
			OrderDate: orderDate,
			// shipped within three days, on the quarter hour during working time
			ShippedAt: orderDate.AddDate(0, 0, g.rng.Intn(4)).
				Add(time.Duration(8+g.rng.Intn(10))*time.Hour + time.Duration(15*(1+g.rng.Intn(3)))*time.Minute),
			OptIn: g.rng.Float64() < 0.6,
			Notes: g.randomNote(),
		}
		if g.rng.Float64() >= g.config.BlankRate {
			score := math.Round(g.rng.Float64()*100) / 100
			orders[i].RiskScore = &score
		}
	}
	return orders
}

func (g *OrdersGenerator) randomDay() time.Time {
	days := int(g.config.EndDate.Sub(g.config.StartDate).Hours() / 24)
	if days <= 0 {
		return g.config.StartDate
	}
	return g.config.StartDate.AddDate(0, 0, g.rng.Intn(days+1))
}

func (g *OrdersGenerator) randomCountry() string {
	countries := []string{"US", "CA", "GB", "DE", "FR", "AU", "JP"}
	return countries[g.rng.Intn(len(countries))]
}

// randomNote mixes free text with bare numbers so the column stays Any
func (g *OrdersGenerator) randomNote() string {
	notes := []string{"gift wrap", "leave at door", "fragile", "call first"}
	if g.rng.Float64() < 0.3 {
		return strconv.Itoa(100 + g.rng.Intn(900))
	}
	return notes[g.rng.Intn(len(notes))]
}

const secondsPerDay = 86400

var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Serial converts t to a 1900-system day serial
func Serial(t time.Time) float64 {
	return float64(t.Unix()-excelEpoch.Unix()) / secondsPerDay
}

// Sheet renders orders as natively tagged cells with a header row
func Sheet(name string, orders []Order) ingestion.Sheet {
	rows := make([][]ingestion.RawCell, 0, len(orders)+1)
	header := make([]ingestion.RawCell, len(OrderColumns))
	for i, id := range OrderColumns {
		header[i] = ingestion.NewTextCell(id)
	}
	rows = append(rows, header)

	for _, o := range orders {
		risk := ingestion.NewBlankCell()
		if o.RiskScore != nil {
			risk = ingestion.NewNumberCell(strconv.FormatFloat(*o.RiskScore, 'f', -1, 64))
		}
		notes := ingestion.NewTextCell(o.Notes)
		if _, err := strconv.Atoi(o.Notes); err == nil {
			notes = ingestion.NewNumberCell(o.Notes)
		}
		rows = append(rows, []ingestion.RawCell{
			ingestion.NewTextCell(o.ID),
			ingestion.NewTextCell(o.Country),
			ingestion.NewNumberCell(strconv.Itoa(o.Quantity)),
			ingestion.NewNumberCell(strconv.FormatFloat(o.UnitPrice, 'f', -1, 64)),
			ingestion.NewDateTimeCell(Serial(o.OrderDate), o.OrderDate.Format("2006-01-02")),
			ingestion.NewDateTimeCell(Serial(o.ShippedAt), o.ShippedAt.Format("2006-01-02 15:04")),
			ingestion.NewBooleanCell(o.OptIn),
			risk,
			notes,
		})
	}
	return ingestion.Sheet{Name: name, Rows: rows}
}

// WriteXLSX saves orders as a workbook with one sheet. Dates carry
// date styles so readers tag them as dates.
func WriteXLSX(path, sheetName string, orders []Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return err
	}
	dateTimeStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	if err != nil {
		return err
	}

	header := make([]interface{}, len(OrderColumns))
	for i, id := range OrderColumns {
		header[i] = id
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	for i, o := range orders {
		row := i + 2
		values := []interface{}{
			o.ID, o.Country, o.Quantity, o.UnitPrice,
			Serial(o.OrderDate), Serial(o.ShippedAt), o.OptIn, nil, o.Notes,
		}
		if o.RiskScore != nil {
			values[7] = *o.RiskScore
		}
		if n, err := strconv.Atoi(o.Notes); err == nil {
			values[8] = n
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}

		for col, style := range map[int]int{5: dateStyle, 6: dateTimeStyle} {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

// WriteCSV writes orders as CSV with ISO dates and "true"/"false" flags
func WriteCSV(w io.Writer, orders []Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(OrderColumns); err != nil {
		return err
	}
	for _, o := range orders {
		risk := ""
		if o.RiskScore != nil {
			risk = strconv.FormatFloat(*o.RiskScore, 'f', 2, 64)
		}
		record := []string{
			o.ID,
			o.Country,
			strconv.Itoa(o.Quantity),
			strconv.FormatFloat(o.UnitPrice, 'f', 2, 64),
			o.OrderDate.Format("2006-01-02"),
			o.ShippedAt.Format("2006-01-02 15:04:05"),
			strconv.FormatBool(o.OptIn),
			risk,
			o.Notes,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
