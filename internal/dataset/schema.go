package dataset

// Column schema for the student performance dataset. The order here is the
// order columns are assigned when a request payload arrives without a header,
// so it must match the training CSVs exactly.
var FeatureColumns = []string{
	"school", "sex", "age", "address", "famsize", "Pstatus", "Medu", "Fedu",
	"Mjob", "Fjob", "reason", "guardian", "traveltime", "studytime",
	"failures", "schoolsup", "famsup", "paid", "activities", "nursery",
	"higher", "internet", "romantic", "famrel", "freetime", "goout", "Dalc",
	"Walc", "health", "absences", "G1", "G2",
}

const LabelColumn = "G3"

// Subsets consumed by the preprocessor. Everything else is dropped at
// transform time.
var (
	NumericColumns = []string{"age", "Medu", "traveltime", "studytime", "failures", "goout", "Dalc", "absences"}
	NominalColumns = []string{"address", "Fjob", "guardian", "higher", "internet", "romantic"}
)

// LabelledColumns returns the feature columns followed by the label column.
func LabelledColumns() []string {
	cols := make([]string, 0, len(FeatureColumns)+1)
	cols = append(cols, FeatureColumns...)
	return append(cols, LabelColumn)
}
