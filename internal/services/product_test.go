package services

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Cesta Romance", "cesta-romance"},
		{"accented", "Cesta Café da Manhã", "cesta-cafe-da-manha"},
		{"cedilla", "Coração de Chocolate", "coracao-de-chocolate"},
		{"punctuation", "Kit  (Edição Especial)!", "kit-edicao-especial"},
		{"numbers", "Caneca 350ml", "caneca-350ml"},
		{"leading trailing", "  --Cesta--  ", "cesta"},
		{"empty", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.in); got != tc.want {
				t.Fatalf("Slugify(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
