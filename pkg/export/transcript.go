package export

// Transcript is the printable view of a student's academic record.
type Transcript struct {
	StudentName string
	RollNumber  string
	Email       string
	Department  string
	Rows        []TranscriptRow
}

// TranscriptRow is one graded enrollment line.
type TranscriptRow struct {
	CourseCode   string
	CourseName   string
	AcademicYear string
	Semester     string
	Grade        string
	Marks        string
	Status       string
}

var transcriptHeaders = []string{"Code", "Course", "Year", "Semester", "Grade", "Marks", "Status"}

func (r TranscriptRow) values() []string {
	return []string{r.CourseCode, r.CourseName, r.AcademicYear, r.Semester, r.Grade, r.Marks, r.Status}
}
