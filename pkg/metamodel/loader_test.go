package metamodel_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapql/internal/testutil"
	"github.com/leapstack-labs/leapql/pkg/metamodel"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, testutil.SampleYAML(), 0o600))

	m, err := metamodel.LoadFile(path)
	require.NoError(t, err)

	names := make([]string, 0)
	for _, e := range m.Entities() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"Address", "Cat", "Dog", "Employee", "Person", "Pet"}, names)

	person, ok := m.Entity("Person")
	require.True(t, ok)
	assert.Equal(t, "com.acme.Person", person.ClassName())
	assert.Equal(t, []string{"Named"}, person.Implements())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := metamodel.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read metamodel file")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr []string
	}{
		{
			name:    "unknown field",
			yaml:    "entities:\n  - name: A\n    atributes: []\n",
			wantErr: []string{"failed to parse YAML"},
		},
		{
			name: "unknown attribute type",
			yaml: `
entities:
  - name: A
    attributes:
      - {name: b, type: Bee}
`,
			wantErr: []string{`entity A: attribute b: unknown type "Bee"`},
		},
		{
			name: "unknown supertype and bad collection",
			yaml: `
entities:
  - name: A
    extends: Zed
    attributes:
      - {name: xs, type: String, collection: vector}
`,
			wantErr: []string{`unknown supertype "Zed"`, `unknown collection kind "vector"`},
		},
		{
			name: "redeclared inherited attribute",
			yaml: `
entities:
  - name: B
    extends: A
    attributes:
      - {name: x, type: String}
  - name: A
    attributes:
      - {name: x, type: String}
`,
			wantErr: []string{`entity B: duplicate attribute "x"`},
		},
		{
			name: "inheritance cycle",
			yaml: `
entities:
  - name: A
    extends: B
  - name: B
    extends: A
`,
			wantErr: []string{"inheritance cycle"},
		},
		{
			name: "duplicate entity",
			yaml: `
entities:
  - name: A
  - name: A
`,
			wantErr: []string{`duplicate entity "A"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metamodel.Parse([]byte(tt.yaml))
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
