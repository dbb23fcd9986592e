package testutil

import (
	_ "embed"
	"testing"

	"github.com/leapstack-labs/leapql/pkg/metamodel"
)

//go:embed sample.yaml
var sampleYAML []byte

// SampleYAML returns the YAML source of the sample metamodel.
func SampleYAML() []byte { return sampleYAML }

// SampleModel builds the sample metamodel:
//
//	Person{id, name, age, gender, mate, address, kids(list), pets(set), nicknames(set), phones(map)}
//	Employee extends Person{salary, manager}
//	Address{id, city, street, owner}
//	Pet{id, name, owner}; Dog extends Pet{barks}; Cat extends Pet{lives}
//	Named = {Person, Pet}, Animal = {Cat, Dog} (unmapped supertypes)
//	enum com.acme.Gender{MALE, FEMALE, OTHER}
func SampleModel(t testing.TB) *metamodel.Model {
	t.Helper()
	m, err := metamodel.Parse(sampleYAML)
	if err != nil {
		t.Fatalf("failed to build sample metamodel: %v", err)
	}
	return m
}
