package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/restostock-api/pkg/slug"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Arroz con Pollo", "arroz-con-pollo"},
		{"Milanesa Napolitana", "milanesa-napolitana"},
		{"Café con Leche", "cafe-con-leche"},
		{"Ñoquis de Papa", "noquis-de-papa"},
		{"  Empanada (x12)  ", "empanada-x12"},
		{"---", ""},
		{"", ""},
		{"Pizza #1!", "pizza-1"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, slug.Make(tc.in), "entrada %q", tc.in)
	}
}
