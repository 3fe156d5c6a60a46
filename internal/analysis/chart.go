package analysis

import (
	"strings"

	"github.com/KaramelBytes/datalens-cli/internal/table"
)

// ChartKind names a chart type.
type ChartKind string

const (
	Bar     ChartKind = "bar"
	Line    ChartKind = "line"
	Scatter ChartKind = "scatter"
	Pie     ChartKind = "pie"
)

// ChartKinds lists the supported kinds in menu order.
var ChartKinds = []ChartKind{Bar, Line, Scatter, Pie}

// ParseChartKind accepts a kind name case-insensitively.
func ParseChartKind(s string) (ChartKind, error) {
	k := ChartKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ChartKinds {
		if k == known {
			return k, nil
		}
	}
	return "", &table.InvalidChartKindError{Kind: s}
}

// ChartSpec describes a requested chart.
type ChartSpec struct {
	Kind ChartKind
	X    string
	Y    string
}

// Slice is one pie segment: a group key and its summed value.
type Slice struct {
	Key   string
	Value float64
}

// ChartData is the reduced data a renderer needs. Bar, line and scatter
// charts use X and Y (paired, row order preserved, NaN for missing);
// pie charts use Slices.
type ChartData struct {
	Spec   ChartSpec
	X      []float64
	Y      []float64
	Slices []Slice
}

// BuildChart validates spec against t and reduces the data for it.
func BuildChart(t *table.Table, spec ChartSpec) (*ChartData, error) {
	kind, err := ParseChartKind(string(spec.Kind))
	if err != nil {
		return nil, err
	}
	spec.Kind = kind
	xc, err := t.Column(spec.X)
	if err != nil {
		return nil, err
	}
	yc, err := t.Column(spec.Y)
	if err != nil {
		return nil, err
	}
	if yc.Kind() != table.Numeric {
		return nil, &table.NonNumericAxisError{Axis: "y", Column: spec.Y}
	}
	if spec.Kind == Pie {
		slices, err := GroupSum(t, spec.X, spec.Y)
		if err != nil {
			return nil, err
		}
		return &ChartData{Spec: spec, Slices: slices}, nil
	}
	if xc.Kind() != table.Numeric {
		return nil, &table.NonNumericAxisError{Axis: "x", Column: spec.X}
	}
	return &ChartData{Spec: spec, X: xc.Floats(), Y: yc.Floats()}, nil
}

// GroupSum groups rows by the distinct values of key and sums the
// numeric column value within each group. Groups are returned in order
// of the key's first appearance in t. Rows with a missing key are
// dropped; missing values contribute nothing to their group's sum.
func GroupSum(t *table.Table, key, value string) ([]Slice, error) {
	kc, err := t.Column(key)
	if err != nil {
		return nil, err
	}
	vc, err := t.Column(value)
	if err != nil {
		return nil, err
	}
	if vc.Kind() != table.Numeric {
		return nil, &table.NonNumericAxisError{Axis: "y", Column: value}
	}
	var out []Slice
	pos := make(map[string]int)
	for i := 0; i < t.Rows(); i++ {
		if kc.Missing(i) {
			continue
		}
		k := kc.String(i)
		j, ok := pos[k]
		if !ok {
			j = len(out)
			pos[k] = j
			out = append(out, Slice{Key: k})
		}
		if v, ok := vc.Float(i); ok {
			out[j].Value += v
		}
	}
	return out, nil
}
