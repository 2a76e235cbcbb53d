package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"rootcalc/internal/rootfind"
)

// WriteCSV экспорт итераций в CSV
func WriteCSV(w io.Writer, steps []rootfind.Step) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"n", "an", "bn", "xn", "f(an)", "f(bn)", "f(xn)"}); err != nil {
		return err
	}

	for _, s := range steps {
		err := cw.Write([]string{
			strconv.Itoa(s.N),
			fmtFloat(s.Left),
			fmtFloat(s.Right),
			fmtFloat(s.Approx),
			fmtFloat(s.FLeft),
			fmtFloat(s.FRight),
			fmtFloat(s.FApprox),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 16, 64)
}
