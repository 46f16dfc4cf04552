package cashflow

import (
	"errors"
	"strings"
	"testing"

	"github.com/finboard/finboard/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHierarchy(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []api.Ref
	}{
		{"bare array", `[{"id":"a"},{"id":"b","parent":"a"}]`, []api.Ref{"a", "b"}},
		{"items envelope", `{"items":[{"id":"a"}]}`, []api.Ref{"a"}},
		{"children envelope", `{"children":[{"id":"c"}]}`, []api.Ref{"c"}},
		{"results envelope", `{"count":1,"results":[{"id":"r"}]}`, []api.Ref{"r"}},
		{"items wins over results", `{"results":[{"id":"r"}],"items":[{"id":"i"}]}`, []api.Ref{"i"}},
		{"single node", `{"id":"solo","name":"Solo"}`, []api.Ref{"solo"}},
		{"null", `null`, []api.Ref{}},
		{"scalar", `42`, []api.Ref{}},
		{"invalid json", `{"id":`, []api.Ref{}},
		{"empty body", ``, []api.Ref{}},
		{"single nested node", `{"id":"root","name":"Food","children":[{"id":"c"}]}`, []api.Ref{"root"}},
		{"non object element is skipped", `[{"id":"a"},"oops",{"id":"b"}]`, []api.Ref{"a", "b"}},
		{"malformed children are ignored", `[{"id":"a"},{"id":"b","children":"nope"}]`, []api.Ref{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := DecodeHierarchy([]byte(tt.body))

			got := make([]api.Ref, 0, len(nodes))
			for _, n := range nodes {
				got = append(got, n.Id)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("should accept parent as embedded object", func(t *testing.T) {
		nodes := DecodeHierarchy([]byte(`[{"id":"b","parent":{"id":"a","name":"A"}}]`))

		require.Len(t, nodes, 1)
		assert.Equal(t, api.Ref("a"), nodes[0].Parent)
	})
}

func TestDecodeHierarchy_Degradation(t *testing.T) {
	flattened := func(body string) []edge {
		var edges []edge
		for _, n := range Flatten(BuildHierarchy(DecodeHierarchy([]byte(body)))) {
			edges = append(edges, edge{n.Id, n.Parent})
		}
		return edges
	}

	t.Run("should keep the root of a single pre-nested node", func(t *testing.T) {
		edges := flattened(`{"id":"root","name":"Food","children":[{"id":"c","parent":"root"}]}`)

		assert.Equal(t, []edge{{"root", ""}, {"c", "root"}}, edges)
	})

	t.Run("should drop only the mistyped field of a nested descendant", func(t *testing.T) {
		// given
		body := `[{"id":"root","children":[{"id":"c","code":true,"name":["x"]},{"id":"d"}]},{"id":"x"}]`

		// when
		nodes := DecodeHierarchy([]byte(body))
		forest := BuildHierarchy(nodes)

		// then
		assert.Equal(t, []string{"root", "x"}, ids(forest))
		assert.Equal(t, []string{"c", "d"}, ids(forest[0].Children))
		assert.Nil(t, forest[0].Children[0].Code)
		assert.Equal(t, UntitledName, forest[0].Children[0].Name)
		assert.Len(t, Flatten(forest), 4)
	})

	t.Run("should read a numeric code as text", func(t *testing.T) {
		nodes := DecodeHierarchy([]byte(`[{"id":"a","code":7,"include_in_budget":"yes"}]`))

		require.Len(t, nodes, 1)
		require.NotNil(t, nodes[0].Code)
		assert.Equal(t, "7", *nodes[0].Code)
		assert.Nil(t, nodes[0].IncludeInBudget)
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestReadHierarchy(t *testing.T) {
	t.Run("should decode from reader", func(t *testing.T) {
		nodes, err := ReadHierarchy(strings.NewReader(`{"items":[{"id":"a"},{"id":"b"}]}`))

		require.NoError(t, err)
		assert.Len(t, nodes, 2)
	})

	t.Run("should only fail when reading fails", func(t *testing.T) {
		_, err := ReadHierarchy(failingReader{})

		assert.Error(t, err)
	})
}
