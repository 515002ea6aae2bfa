package dataset

// SampleName labels the built-in illustrative table.
const SampleName = "sample"

var sampleColumns = []string{
	"LATITUDE", "LONGITUDE", "Incident Type", "Region of Incident", "Incident Date",
	"Incident Year", "Month", "Number of Dead", "Minimum Estimated Number of Missing",
	"Total Number of Dead and Missing", "Number of Survivors", "Number of Females",
	"Number of Males", "Number of Children", "Country of Origin", "Region of Origin",
	"Cause of Death", "Country of Incident", "Migration Route", "Location of Incident",
}

var sampleRows = [][]string{
	{"31.650259", "-110.366453", "Shipwreck", "North America", "2023-01-15", "2023", "January", "12", "3", "15", "8", "6", "14", "3", "Guatemala", "Central America", "Drowning", "United States", "Mexico to US", "Desert"},
	{"31.59713", "-111.73756", "Vehicle Accident", "North America", "2023-02-20", "2023", "February", "5", "0", "5", "12", "7", "10", "4", "Mexico", "North America", "Trauma", "United States", "Mexico to US", "Highway"},
	{"31.94026", "-113.01125", "Dehydration", "North America", "2023-03-10", "2023", "March", "3", "2", "5", "5", "2", "6", "1", "Honduras", "Central America", "Dehydration", "United States", "Central America to US", "Desert"},
	{"31.506777", "-109.315632", "Violence", "North America", "2023-04-05", "2023", "April", "8", "1", "9", "3", "5", "7", "2", "El Salvador", "Central America", "Violence", "United States", "Central America to US", "Border"},
	{"59.1551", "28", "Drowning", "Europe", "2023-05-12", "2023", "May", "15", "5", "20", "2", "8", "14", "7", "Syria", "Middle East", "Drowning", "Finland", "Middle East to Europe", "Sea"},
	{"32.45435", "-113.18402", "Hypothermia", "North America", "2023-06-08", "2023", "June", "2", "0", "2", "4", "1", "5", "0", "Mexico", "North America", "Exposure", "United States", "Mexico to US", "Mountains"},
}

// Sample returns the six-row illustrative table used when nothing is uploaded.
// Each call returns a fresh copy.
func Sample() *Table {
	rows := make([][]string, len(sampleRows))
	for i, r := range sampleRows {
		rows[i] = append([]string(nil), r...)
	}
	return &Table{
		Name:    SampleName,
		Columns: append([]string(nil), sampleColumns...),
		Rows:    rows,
	}
}
