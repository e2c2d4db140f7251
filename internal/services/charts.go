package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/epeers/markowitz/internal/markowitz"
	"github.com/epeers/markowitz/internal/models"
	"github.com/vicanso/go-charts/v2"
)

const (
	chartWidth  = 1000
	chartHeight = 600
)

// RenderFrontierChart draws the efficient frontier of an optimization as a PNG:
// annualized return (%) against annualized risk (%), ordered by risk.
func RenderFrontierChart(resp *models.OptimizeResponse) ([]byte, error) {
	if len(resp.EfficientFrontier) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 frontier points to draw a chart, got %d",
			markowitz.ErrInfeasible, len(resp.EfficientFrontier))
	}

	points := slices.Clone(resp.EfficientFrontier)
	slices.SortStableFunc(points, func(a, b models.FrontierPoint) int {
		switch {
		case a.Risk < b.Risk:
			return -1
		case a.Risk > b.Risk:
			return 1
		}
		return 0
	})

	xLabels := make([]string, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		xLabels[i] = fmt.Sprintf("%.1f%%", p.Risk*100)
		values[i] = p.Return * 100
	}

	yMin, yMax := slices.Min(values), slices.Max(values)
	padding := (yMax - yMin) * 0.05
	if padding == 0 {
		padding = 0.5
	}
	yMin -= padding
	yMax += padding

	splitNum := 6
	if len(xLabels) <= 30 {
		splitNum = max(len(xLabels)/3, 3)
	}

	title := fmt.Sprintf("Efficient frontier (%s)", strings.Join(resp.Tickers, ", "))
	subtitle := fmt.Sprintf("Optimal: return %.2f%% | risk %.2f%%", resp.OptimalReturn*100, resp.OptimalRisk*100)
	if resp.OptimalSharpe != nil {
		subtitle += fmt.Sprintf(" | Sharpe %.2f", *resp.OptimalSharpe)
	}

	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(title+"\n"+subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: []string{"Return % by risk %"},
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}
