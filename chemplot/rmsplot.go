/*
 * rmsplot.go, part of rmsstats.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

// Package chemplot produces PNG plots of the pairwise RMSD statistics
// calculated by rmsstats.
package chemplot

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rmera/rmsstats"
)

// PairGrid presents the pair RMSDs of one mode as a square grid, for heat maps.
// The diagonal (a state against itself) is 0. Column and row coordinates
// are the 1-based state numbers.
type PairGrid struct {
	S *rmsstats.Stats
}

// Dims returns the number of states, twice.
func (G PairGrid) Dims() (c, r int) {
	return G.S.States, G.S.States
}

// Z returns the RMSD between the states c and r.
func (G PairGrid) Z(c, r int) float64 {
	if c == r {
		return 0
	}
	v, ok := G.S.RMSD(c, r)
	if !ok {
		panic(fmt.Sprintf("chemplot: no RMSD for states %d and %d", c+1, r+1))
	}
	return v
}

func (G PairGrid) X(c int) float64 {
	return float64(c + 1)
}

func (G PairGrid) Y(r int) float64 {
	return float64(r + 1)
}

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	return p
}

func plottable(S *rmsstats.Stats) error {
	if S == nil {
		return fmt.Errorf("chemplot: no statistics given")
	}
	if len(S.Pairs) == 0 {
		return fmt.Errorf("chemplot: mode %s has no pair RMSDs to plot", S.Mode)
	}
	return nil
}

// HeatMap saves a heat map of the RMSD between each pair of states of S to
// plotname.png.
func HeatMap(S *rmsstats.Stats, title, plotname string) error {
	if err := plottable(S); err != nil {
		return err
	}
	p := basicPlot(title, "State", "State")
	h := plotter.NewHeatMap(PairGrid{S}, palette.Heat(12, 1))
	if h.Max <= h.Min {
		h.Max = h.Min + 1 //all states identical.
	}
	h.NaN = color.Black
	p.Add(h)
	p.X.Min, p.X.Max = 0.5, float64(S.States)+0.5
	p.Y.Min, p.Y.Max = 0.5, float64(S.States)+0.5
	return p.Save(5*vg.Inch, 5*vg.Inch, plotname+".png")
}

// Histogram saves a histogram of the pair RMSD values of S, with the
// given number of bins, to plotname.png.
func Histogram(S *rmsstats.Stats, bins int, title, plotname string) error {
	if err := plottable(S); err != nil {
		return err
	}
	p := basicPlot(title, "RMSD (A)", "Pairs")
	h, err := plotter.NewHist(plotter.Values(S.Values()), bins)
	if err != nil {
		return err
	}
	h.FillColor = color.RGBA{R: 196, G: 64, B: 32, A: 255}
	p.Add(plotter.NewGrid())
	p.Add(h)
	return p.Save(6*vg.Inch, 4*vg.Inch, plotname+".png")
}

// ResultPlots saves a heat map and a histogram for each mode of R that has pair
// RMSDs, in the directory dir. It returns the names of the files written.
// Modes without pairs are skipped.
func ResultPlots(R *rmsstats.Result, dir string) ([]string, error) {
	if R == nil || R.Fatal() {
		return nil, fmt.Errorf("chemplot: no results to plot")
	}
	var written []string
	for _, m := range rmsstats.Modes {
		S := R.Mode(m)
		if S == nil || len(S.Pairs) == 0 {
			continue
		}
		base := filepath.Join(dir, plotName(R.Object, m))
		title := fmt.Sprintf("%s, %s", R.Object, m.Label())
		if err := HeatMap(S, "Pair RMSD: "+title, base+"_heatmap"); err != nil {
			return written, err
		}
		written = append(written, base+"_heatmap.png")
		if err := Histogram(S, histoBins(len(S.Pairs)), "RMSD distribution: "+title, base+"_histogram"); err != nil {
			return written, err
		}
		written = append(written, base+"_histogram.png")
	}
	return written, nil
}
