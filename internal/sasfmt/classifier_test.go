package sasfmt

import "testing"

func TestClassifyDateFormats(t *testing.T) {
	cases := []string{"DATE9", "DDMMYY10", "MMDDYY10", "YYMMDD10", "DATEW", "DAYW", "YEARW"}
	for _, f := range cases {
		if got := Classify(f); got != Date {
			t.Errorf("Classify(%q) = %v, want Date", f, got)
		}
	}
}

func TestClassifyTimeFormats(t *testing.T) {
	cases := []string{"TIME", "TIME8", "HHMMWD", "HOURWD", "TODWD"}
	for _, f := range cases {
		if got := Classify(f); got != Time {
			t.Errorf("Classify(%q) = %v, want Time", f, got)
		}
	}
}

func TestClassifyTimeMicro(t *testing.T) {
	if got := Classify("TIME20.6"); got != TimeMicro {
		t.Errorf("Classify(TIME20.6) = %v, want TimeMicro", got)
	}
}

func TestClassifyDateTimeSec(t *testing.T) {
	cases := []string{"DATETIME22", "DATETIMEWD", "DATEAMPMWD"}
	for _, f := range cases {
		if got := Classify(f); got != DateTimeSec {
			t.Errorf("Classify(%q) = %v, want DateTimeSec", f, got)
		}
	}
}

func TestClassifyDateTimePrecision(t *testing.T) {
	cases := map[string]Class{
		"DATETIME22.3": DateTimeMilli,
		"DATETIME22.6": DateTimeMicro,
		"DATETIME22.9": DateTimeNano,
	}
	for f, want := range cases {
		if got := Classify(f); got != want {
			t.Errorf("Classify(%q) = %v, want %v", f, got, want)
		}
	}
}

func TestClassifyUnknown(t *testing.T) {
	cases := []string{"BEST12", "$30", "$10", "COMMA12", ""}
	for _, f := range cases {
		if got := Classify(f); got != None {
			t.Errorf("Classify(%q) = %v, want None", f, got)
		}
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	if got := Classify("date9"); got != Date {
		t.Errorf("Classify(date9) = %v, want Date", got)
	}
	if got := Classify("datetime22"); got != DateTimeSec {
		t.Errorf("Classify(datetime22) = %v, want DateTimeSec", got)
	}
	if got := Classify("time8"); got != Time {
		t.Errorf("Classify(time8) = %v, want Time", got)
	}
}
