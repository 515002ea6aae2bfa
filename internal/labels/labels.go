// Package labels holds the display strings of every surface in English,
// Portuguese and Russian, and formats numbers for the chosen locale.
package labels

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/incidentscope-cli/internal/filter"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Key identifies one display string.
type Key string

const (
	AppTitle         Key = "app.title"
	SampleNotice     Key = "notice.sample"
	NoDataNotice     Key = "notice.no_data"
	NoCoordinates    Key = "notice.no_coordinates"
	NoCoordColumns   Key = "notice.no_coordinate_columns"
	NotEnoughNumeric Key = "notice.not_enough_numeric"
	BadMonths        Key = "notice.bad_months"
	LoadFailed       Key = "notice.load_failed"
	KPIIncidents     Key = "kpi.incidents"
	KPIVictims       Key = "kpi.victims"
	KPISurvivors     Key = "kpi.survivors"
	KPIChildren      Key = "kpi.children"
	KPIDead          Key = "kpi.dead"
	KPIMissing       Key = "kpi.missing"
	Male             Key = "demo.male"
	Female           Key = "demo.female"
	Adults           Key = "demo.adults"
	Children         Key = "demo.children"
	RecordsToShow    Key = "records.count"
	Download         Key = "records.download"
	Incidents        Key = "axis.incidents"
	Victims          Key = "axis.victims"
	SurvivalPct      Key = "axis.survival"
	Footer           Key = "footer"
	Month            Key = "axis.month"
	Notes            Key = "report.notes"
	File             Key = "report.file"
	Rows             Key = "report.rows"
	RowsOf           Key = "report.rows_of"
)

// Default is the fallback locale.
const Default = "en"

var tags = []language.Tag{language.English, language.Portuguese, language.Russian}

var matcher = language.NewMatcher(tags)

var catalog = map[language.Tag]map[Key]string{
	language.English: {
		AppTitle:         "Migration Incidents Analysis Dashboard",
		SampleNotice:     "⚠️ Using example data. Upload your file for real analysis.",
		NoDataNotice:     "No data available for the selected filters.",
		NoCoordinates:    "There are no valid coordinates to display on the map.",
		NoCoordColumns:   "Latitude and longitude columns were not found in the data.",
		NotEnoughNumeric: "There are not enough numerical variables to create a correlation matrix.",
		BadMonths:        "Could not create the seasonality chart due to issues with the month format.",
		LoadFailed:       "Error loading file",
		KPIIncidents:     "Total Incidents",
		KPIVictims:       "Total Victims",
		KPISurvivors:     "Total Survivors",
		KPIChildren:      "Children Affected",
		KPIDead:          "Total Dead",
		KPIMissing:       "Total Missing",
		Male:             "Male",
		Female:           "Female",
		Adults:           "Adults",
		Children:         "Children",
		RecordsToShow:    "Number of records to show",
		Download:         "📥 Download filtered data (CSV)",
		Incidents:        "Number of Incidents",
		Victims:          "Number of Victims",
		SurvivalPct:      "Survival Rate (%)",
		Footer:           "Dashboard developed for migration incident data analysis. The data is sensitive and represents human tragedies.",
		Month:            "Month",
		Notes:            "Notes",
		File:             "File",
		Rows:             "Rows",
		RowsOf:           "%s of %s",

		"dim.year":   "Incident Year",
		"dim.region": "Incident Region",
		"dim.type":   "Incident Type",

		"view.summary":          "Incidents Overview",
		"view.time_trend":       "Incident Trend Over Time",
		"view.victims_trend":    "Evolution of Incidents and Victims Over Time",
		"view.type_counts":      "Incidents by Type",
		"view.victims_by_type":  "Victims by Incident Type",
		"view.geo_map":          "Incidents Heat Map",
		"view.country_counts":   "Incidents by Country",
		"view.route_counts":     "Most Common Migration Routes",
		"view.demographics":     "Gender Distribution",
		"view.children":         "Presence of Children",
		"view.origin_countries": "Main Countries of Origin",
		"view.origin_regions":   "Regions of Origin",
		"view.survival_rate":    "Survival Rate by Incident Type",
		"view.cause_counts":     "Main Causes of Death",
		"view.seasonal":         "Seasonal Pattern of Incidents",
		"view.correlation":      "Variable Correlations",
		"view.records":          "Individual Data Exploration",
	},
	language.Portuguese: {
		AppTitle:         "Dashboard de Análise de Incidentes Migratórios",
		SampleNotice:     "⚠️ Usando dados de exemplo. Carregue seu arquivo para análise real.",
		NoDataNotice:     "Não há dados disponíveis para os filtros selecionados.",
		NoCoordinates:    "Não há coordenadas válidas para exibir no mapa.",
		NoCoordColumns:   "As colunas de latitude e longitude não foram encontradas nos dados.",
		NotEnoughNumeric: "Não há variáveis numéricas suficientes para criar uma matriz de correlação.",
		BadMonths:        "Não foi possível criar o gráfico de sazonalidade devido a problemas com o formato dos meses.",
		LoadFailed:       "Erro ao carregar o arquivo",
		KPIIncidents:     "Total de Incidentes",
		KPIVictims:       "Total de Vítimas",
		KPISurvivors:     "Total de Sobreviventes",
		KPIChildren:      "Crianças Afetadas",
		KPIDead:          "Total de Mortos",
		KPIMissing:       "Total de Desaparecidos",
		Male:             "Masculino",
		Female:           "Feminino",
		Adults:           "Adultos",
		Children:         "Crianças",
		RecordsToShow:    "Número de registros para mostrar",
		Download:         "📥 Baixar dados filtrados (CSV)",
		Incidents:        "Número de Incidentes",
		Victims:          "Número de Vítimas",
		SurvivalPct:      "Taxa de Sobrevivência (%)",
		Footer:           "Dashboard desenvolvido para análise de dados de incidentes migratórios. Os dados são sensíveis e representam tragédias humanas.",
		Month:            "Mês",
		Notes:            "Observações",
		File:             "Arquivo",
		Rows:             "Linhas",
		RowsOf:           "%s de %s",

		"dim.year":   "Ano do Incidente",
		"dim.region": "Região do Incidente",
		"dim.type":   "Tipo de Incidente",

		"view.summary":          "Visão Geral dos Incidentes",
		"view.time_trend":       "Tendência de Incidentes ao Longo do Tempo",
		"view.victims_trend":    "Evolução de Incidentes e Vítimas ao Longo do Tempo",
		"view.type_counts":      "Incidentes por Tipo",
		"view.victims_by_type":  "Vítimas por Tipo de Incidente",
		"view.geo_map":          "Mapa de Calor de Incidentes",
		"view.country_counts":   "Incidentes por País",
		"view.route_counts":     "Rotas Migratórias Mais Comuns",
		"view.demographics":     "Distribuição por Gênero",
		"view.children":         "Presença de Crianças",
		"view.origin_countries": "Principais Países de Origem",
		"view.origin_regions":   "Regiões de Origem",
		"view.survival_rate":    "Taxa de Sobrevivência por Tipo de Incidente",
		"view.cause_counts":     "Principais Causas de Morte",
		"view.seasonal":         "Padrão Sazonal de Incidentes",
		"view.correlation":      "Correlações Entre Variáveis",
		"view.records":          "Exploração de Dados Individuais",
	},
	language.Russian: {
		AppTitle:         "Панель мониторинга анализа миграционных инцидентов",
		SampleNotice:     "⚠️ Использование примера данных. Загрузите свой файл для реального анализа.",
		NoDataNotice:     "Нет доступных данных для выбранных фильтров.",
		NoCoordinates:    "Нет действительных координат для отображения на карте.",
		NoCoordColumns:   "Столбцы широты и долготы не найдены в данных.",
		NotEnoughNumeric: "Недостаточно числовых переменных для создания корреляционной матрицы.",
		BadMonths:        "Невозможно создать график сезонности из-за проблем с форматом месяцев.",
		LoadFailed:       "Ошибка при загрузке файла",
		KPIIncidents:     "Всего инцидентов",
		KPIVictims:       "Всего жертв",
		KPISurvivors:     "Всего выживших",
		KPIChildren:      "Пострадавших детей",
		KPIDead:          "Всего погибших",
		KPIMissing:       "Всего пропавших",
		Male:             "Мужской",
		Female:           "Женский",
		Adults:           "Взрослые",
		Children:         "Дети",
		RecordsToShow:    "Количество записей для отображения",
		Download:         "📥 Скачать отфильтрованные данные (CSV)",
		Incidents:        "Количество инцидентов",
		Victims:          "Количество жертв",
		SurvivalPct:      "Уровень выживаемости (%)",
		Footer:           "Дашборд разработан для анализа данных о миграционных инцидентах. Данные чувствительны и представляют собой человеческие трагедии.",
		Month:            "Месяц",
		Notes:            "Примечания",
		File:             "Файл",
		Rows:             "Строк",
		RowsOf:           "%s из %s",

		"dim.year":   "Год инцидента",
		"dim.region": "Регион инцидента",
		"dim.type":   "Тип инцидента",

		"view.summary":          "Общий обзор инцидентов",
		"view.time_trend":       "Тенденция инцидентов во времени",
		"view.victims_trend":    "Эволюция инцидентов и жертв во времени",
		"view.type_counts":      "Инциденты по типу",
		"view.victims_by_type":  "Жертвы по типу инцидента",
		"view.geo_map":          "Тепловая карта инцидентов",
		"view.country_counts":   "Инциденты по странам",
		"view.route_counts":     "Наиболее распространенные миграционные маршруты",
		"view.demographics":     "Распределение по полу",
		"view.children":         "Присутствие детей",
		"view.origin_countries": "Основные страны происхождения",
		"view.origin_regions":   "Регионы происхождения",
		"view.survival_rate":    "Уровень выживаемости по типу инцидента",
		"view.cause_counts":     "Основные причины смерти",
		"view.seasonal":         "Сезонная модель инцидентов",
		"view.correlation":      "Корреляции между переменными",
		"view.records":          "Исследование отдельных данных",
	},
}

func init() {
	for tag, m := range catalog {
		for k, v := range m {
			// Escape verbs so Sprintf renders the label literally.
			_ = message.SetString(tag, string(k), strings.ReplaceAll(v, "%", "%%"))
		}
	}
}

// Labels renders strings and numbers for one locale.
type Labels struct {
	tag language.Tag
	p   *message.Printer
}

// For returns the labels of the closest supported locale to lang
// ("pt-BR" resolves to Portuguese). Unknown input falls back to English.
func For(lang string) Labels {
	tag := language.English
	if t, err := language.Parse(strings.TrimSpace(lang)); err == nil {
		_, idx, conf := matcher.Match(t)
		if conf != language.No {
			tag = tags[idx]
		}
	}
	return Labels{tag: tag, p: message.NewPrinter(tag)}
}

// Supported lists the locale codes with a full label set.
func Supported() []string { return []string{"en", "pt", "ru"} }

// printer falls back to English for the zero Labels value.
func (l Labels) printer() *message.Printer {
	if l.p == nil {
		return message.NewPrinter(language.English)
	}
	return l.p
}

// Lang is the base language code in use.
func (l Labels) Lang() string {
	base, _ := l.tag.Base()
	return base.String()
}

// T returns the label for k, or k itself when no label exists.
func (l Labels) T(k Key) string {
	return l.printer().Sprintf(string(k))
}

// View returns the section title of a dashboard feature.
func (l Labels) View(f schema.Feature) string { return l.T(Key("view." + string(f))) }

// Dimension returns the filter label of d.
func (l Labels) Dimension(d filter.Dimension) string { return l.T(Key("dim." + string(d))) }

// Int formats n with the locale's digit grouping.
func (l Labels) Int(n int64) string { return l.printer().Sprintf("%d", n) }

// Percent formats a rate with one decimal.
func (l Labels) Percent(v float64) string { return l.printer().Sprintf("%.1f%%", v) }

// Float formats v with the given decimals.
func (l Labels) Float(v float64, decimals int) string {
	return l.printer().Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}
