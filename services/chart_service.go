package services

import (
	"bytes"
	"fmt"
	"math"

	"github.com/aadykin95/telegram-food-bot-render/models"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type series struct {
	name  string
	value func(models.Nutrients) float64
}

var chartSeries = []series{
	{"Вес", func(n models.Nutrients) float64 { return n.Grams }},
	{"Калории", func(n models.Nutrients) float64 { return n.Calories }},
	{"Белки", func(n models.Nutrients) float64 { return n.Protein }},
	{"Жиры", func(n models.Nutrients) float64 { return n.Fat }},
	{"Углеводы", func(n models.Nutrients) float64 { return n.Carbs }},
}

// ChartService draws the report buckets as a PNG line chart.
type ChartService struct {
	width, height vg.Length
}

func NewChartService() *ChartService {
	return &ChartService{width: 9 * vg.Inch, height: 5 * vg.Inch}
}

func (c *ChartService) Render(rep *models.Report) ([]byte, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Отчёт за %s", rep.Period)
	p.X.Label.Text = "Период"
	p.Y.Label.Text = "Количество"
	p.Y.Min = 0
	p.Legend.Top = true
	p.Legend.Left = true

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(grid)

	ticks := make([]plot.Tick, len(rep.Buckets))
	for i, b := range rep.Buckets {
		ticks[i] = plot.Tick{Value: float64(i), Label: b.Label}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	for i, s := range chartSeries {
		pts := make(plotter.XYs, len(rep.Buckets))
		for j, b := range rep.Buckets {
			pts[j].X = float64(j)
			pts[j].Y = s.value(b.Nutrients)
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("chart series %s: %w", s.name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		points.Color = plotutil.Color(i)
		points.Shape = draw.CircleGlyph{}
		p.Add(line, points)
		p.Legend.Add(s.name, line, points)
	}

	w, err := p.WriterTo(c.width, c.height, "png")
	if err != nil {
		return nil, fmt.Errorf("chart writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
