package labels

import (
	"testing"

	"github.com/KaramelBytes/incidentscope-cli/internal/filter"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
	"github.com/stretchr/testify/assert"
)

func TestForResolvesLocale(t *testing.T) {
	assert.Equal(t, "en", For("").Lang())
	assert.Equal(t, "en", For("klingon").Lang())
	assert.Equal(t, "pt", For("pt-BR").Lang())
	assert.Equal(t, "ru", For("ru").Lang())
	assert.Equal(t, []string{"en", "pt", "ru"}, Supported())
}

func TestTranslations(t *testing.T) {
	assert.Equal(t, "Migration Incidents Analysis Dashboard", For("en").T(AppTitle))
	assert.Equal(t, "Dashboard de Análise de Incidentes Migratórios", For("pt").T(AppTitle))
	assert.Equal(t, "Панель мониторинга анализа миграционных инцидентов", For("ru").T(AppTitle))
	assert.Equal(t, "Não há dados disponíveis para os filtros selecionados.", For("pt").T(NoDataNotice))
}

func TestEveryLocaleHasEveryKey(t *testing.T) {
	en := catalog[tags[0]]
	for _, tag := range tags[1:] {
		for k := range en {
			_, ok := catalog[tag][k]
			assert.True(t, ok, "%s missing %s", tag, k)
		}
	}
	for _, f := range []schema.Feature{schema.Summary, schema.GeoMap, schema.RecordBrowser} {
		assert.NotEqual(t, "view."+string(f), For("ru").View(f))
	}
	for _, d := range filter.Dimensions {
		assert.NotEqual(t, "dim."+string(d), For("pt").Dimension(d))
	}
}

func TestUnknownKeyEchoes(t *testing.T) {
	assert.Equal(t, "no.such.key", For("en").T(Key("no.such.key")))
}

func TestNumberFormatting(t *testing.T) {
	en := For("en")
	assert.Equal(t, "1,234", en.Int(1234))
	assert.Equal(t, "34.8%", en.Percent(34.8))
	assert.Equal(t, "0.25", en.Float(0.25, 2))
	assert.Equal(t, "1.234", For("pt").Int(1234))

	var zero Labels
	assert.Equal(t, "Migration Incidents Analysis Dashboard", zero.T(AppTitle))
	assert.Equal(t, "7", zero.Int(7))
}
