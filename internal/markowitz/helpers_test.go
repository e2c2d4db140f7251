package markowitz

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// syntheticSeries builds a return series with an exact sample mean of mu and a
// standard deviation close to vol.
func syntheticSeries(ticker string, n int, mu, vol float64, seed uint64) ReturnSeries {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	z := make([]float64, n)
	for i := range z {
		z[i] = rng.NormFloat64()
	}
	mean := floats.Sum(z) / float64(n)
	returns := make([]float64, n)
	dates := make([]time.Time, n)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range z {
		returns[i] = mu + vol*(z[i]-mean)
		dates[i] = start.AddDate(0, 0, i)
	}
	return ReturnSeries{Ticker: ticker, Dates: dates, Returns: returns}
}

func threeAssetUniverse() ([]string, []ReturnSeries) {
	tickers := []string{"AAA", "BBB", "CCC"}
	return tickers, []ReturnSeries{
		syntheticSeries("AAA", 500, 0.0004, 0.010, 1),
		syntheticSeries("BBB", 500, 0.0008, 0.020, 2),
		syntheticSeries("CCC", 500, 0.0002, 0.005, 3),
	}
}
