package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prestaci/prestaci-backend/internal/model"
)

func TestRender(t *testing.T) {
	t.Run("substitutes known placeholders", func(t *testing.T) {
		out := Render("Bonjour {{nom}}, RDV le {{date}} a {{heure}}",
			map[string]any{"nom": "Awa", "date": "2026-09-01", "heure": "14:00"})
		assert.Equal(t, "Bonjour Awa, RDV le 2026-09-01 a 14:00", out)
	})

	t.Run("missing keys render empty", func(t *testing.T) {
		assert.Equal(t, "Hi ", Render("Hi {{x}}", map[string]any{}))
		assert.Equal(t, "Hi ", Render("Hi {{x}}", nil))
	})

	t.Run("nil value renders empty", func(t *testing.T) {
		assert.Equal(t, "Hi ", Render("Hi {{x}}", map[string]any{"x": nil}))
	})

	t.Run("non-string values are stringified", func(t *testing.T) {
		assert.Equal(t, "id 42", Render("id {{id}}", map[string]any{"id": 42}))
	})

	t.Run("malformed markers stay literal", func(t *testing.T) {
		vars := map[string]any{"a b": "x", "a": "y"}
		assert.Equal(t, "{{a b}} {single} {{}}", Render("{{a b}} {single} {{}}", vars))
	})

	t.Run("repeated placeholder replaced everywhere", func(t *testing.T) {
		out := Render("{{ref}} / {{ref}}", map[string]any{"ref": "RSV-1"})
		assert.Equal(t, "RSV-1 / RSV-1", out)
	})
}

func TestRenderTemplate(t *testing.T) {
	tpl := &model.NotificationTemplate{
		Titre:   "Reservation {{reference}}",
		Message: "Votre reservation du {{date}} est {{statut}}",
	}
	titre, message := RenderTemplate(tpl, map[string]any{
		"reference": "RSV-ABC123", "date": "2026-09-01", "statut": "confirmee",
	})
	assert.Equal(t, "Reservation RSV-ABC123", titre)
	assert.Equal(t, "Votre reservation du 2026-09-01 est confirmee", message)
}

func TestParseVariables(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"json array", `["nom","date"]`, []string{"nom", "date"}},
		{"single quoted pseudo json", `['nom','date']`, []string{"nom", "date"}},
		{"bare comma list", `nom, date`, []string{"nom", "date"}},
		{"single bare name", `reference`, []string{"reference"}},
		{"spaces and stray quotes", ` [ "nom" , 'date' ] `, []string{"nom", "date"}},
		{"empty string", ``, nil},
		{"empty array", `[]`, nil},
		{"trailing comma degrades gracefully", `nom, date,`, []string{"nom", "date"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseVariables(tc.raw))
		})
	}
}
