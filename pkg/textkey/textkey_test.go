package textkey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventory-predictor/pkg/textkey"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Nairobi_Warehouse":  "nairobi_warehouse",
		"Nairobi Warehouse":  "nairobi_warehouse",
		"  Mombasa--Store  ": "mombasa_store",
		"Bogotá Centro":      "bogota_centro",
		"KISUMU":             "kisumu",
		"":                   "",
		"__":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, textkey.Normalize(in), "entrada %q", in)
	}
}
