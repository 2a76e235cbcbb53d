package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"rootcalc/internal/rootfind"
)

const tableHeader = "|  n  |  an  |  bn  |  xn  |  f(an)  |  f(bn)  |  f(xn)  |"

// Table печатает трассу построчно; заголовок выводится перед первой строкой
type Table struct {
	w    io.Writer
	rows int
}

func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

// Record подходит как onStep для rootfind.Approximate
func (t *Table) Record(s rootfind.Step) error {
	if t.rows == 0 {
		if _, err := fmt.Fprintln(t.w, tableHeader); err != nil {
			return err
		}
	}
	t.rows++
	_, err := fmt.Fprintln(t.w, FormatRow(s))
	return err
}

func (t *Table) Rows() int {
	return t.rows
}

// WriteTable печатает всю трассу; пустая трасса ничего не выводит
func WriteTable(w io.Writer, steps []rootfind.Step) error {
	t := NewTable(w)
	for _, s := range steps {
		if err := t.Record(s); err != nil {
			return err
		}
	}
	return nil
}

func FormatRow(s rootfind.Step) string {
	cells := []string{
		strconv.Itoa(s.N),
		shortFloat(s.Left),
		shortFloat(s.Right),
		shortFloat(s.Approx),
		shortFloat(s.FLeft),
		shortFloat(s.FRight),
		shortFloat(s.FApprox),
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

// Summary строка с итогом: "равен" для точного корня, "приближённо равен" иначе
func Summary(label string, out rootfind.Outcome) string {
	verb := "приближённо равен"
	if out.Exact {
		verb = "равен"
	}
	return fmt.Sprintf("корень <<%s>> %s <<(%s, 0)>>.", label, verb, shortFloat(out.Approx))
}

func shortFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
