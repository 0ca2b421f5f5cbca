package analysis

import (
	"path"

	"github.com/zeu5/bandits/core"
	"github.com/zeu5/bandits/util"
)

// JSONComparator writes the datasets of every experiment to a single json file
type JSONComparator struct {
	savePath string
}

var _ core.Comparator = &JSONComparator{}

func NewJSONComparator(savePath string, name string) *JSONComparator {
	return &JSONComparator{
		savePath: path.Join(savePath, name+".json"),
	}
}

func (j *JSONComparator) Compare(experimentNames []string, datasets []core.DataSet) error {
	out := make(map[string]core.DataSet)
	for i, name := range experimentNames {
		out[name] = datasets[i]
	}
	return util.SaveJson(j.savePath, out)
}
