package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const subjectSheet = `รหัสวิชา,ชื่อวิชา,หน่วยกิต,ครูผู้สอน,น้ำหนัก,ห้องนักเรียน,สรุปห้อง,,
ค31101,คณิตศาสตร์,1.5,สมชาย ใจดี,3,ม.4/1-2,A/1/301;A/1/302,A/1/301,
ว31101,ฟิสิกส์,1,สมหญิง,,ม.4/1,B/2/12,-,B/2/2
,ว่าง,1,ใคร,,ม.4/1,A/1/301,,
ส31101,สังคม,abc,ใคร,,ม.4/1,A/1/301,,
อ31101,อังกฤษ,1,Jane,,nan,A/1/301,,
`

func TestParseSubjects(t *testing.T) {
	sheet, err := ParseSubjects(strings.NewReader(subjectSheet))
	require.NoError(t, err)
	require.Len(t, sheet.Subjects, 3)

	first := sheet.Subjects[0]
	assert.Equal(t, "ค31101", first.Code)
	assert.Equal(t, 1.5, first.Credit)
	assert.Equal(t, "สมชาย ใจดี", first.Teacher)
	assert.Equal(t, 3.0, first.Weight)
	assert.Equal(t, "ม.4/1", first.Group)
	assert.Equal(t, []string{"A/1/301", "A/1/302"}, first.ActualRooms)
	assert.Equal(t, "ม.4/2", sheet.Subjects[1].Group)

	physics := sheet.Subjects[2]
	assert.Equal(t, 0.0, physics.Weight)
	assert.Equal(t, []string{"B/2/2", "B/2/12"}, physics.ActualRooms)

	require.NotNil(t, sheet.Skipped)
	require.Len(t, sheet.Skipped.Errors, 1)
	assert.Contains(t, sheet.Skipped.Errors[0].Error(), "line 5")
	assert.Contains(t, sheet.Skipped.Errors[0].Error(), "ส31101")
}

func TestParseSubjectsRoomsAreCopiedPerGroup(t *testing.T) {
	sheet, err := ParseSubjects(strings.NewReader(subjectSheet))
	require.NoError(t, err)

	sheet.Subjects[0].ActualRooms[0] = "changed"
	assert.Equal(t, "A/1/301", sheet.Subjects[1].ActualRooms[0])
}

func TestParseSubjectsEnglishHeaders(t *testing.T) {
	raw := "Code,Credit,Teacher,Group,Actual Room\nM101,2,Ann,G1,R1\n"
	sheet, err := ParseSubjects(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, sheet.Subjects, 1)
	assert.Equal(t, "G1", sheet.Subjects[0].Group)
	assert.Equal(t, []string{"R1"}, sheet.Subjects[0].ActualRooms)
	assert.Nil(t, sheet.Skipped)
}

func TestParseSubjectsMissingColumns(t *testing.T) {
	_, err := ParseSubjects(strings.NewReader("Code,Teacher\nM101,Ann\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "credit, group, summary")
}

func TestParseSubjectsEmptyInput(t *testing.T) {
	_, err := ParseSubjects(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseSubjectsOversizedRangeIsAWarning(t *testing.T) {
	sheet, err := ParseSubjects(strings.NewReader("code,credit,teacher,group,actual room\n" +
		"M1,1,Ann,ม.1/1-5000000,A1\n" +
		"M2,1,Ann,ม.1/1,A/1/1-900\n" +
		"M3,1,Bob,ม.1/1,A1\n"))
	require.NoError(t, err)
	require.Len(t, sheet.Subjects, 1)
	assert.Equal(t, "M3", sheet.Subjects[0].Code)
	require.Len(t, sheet.Skipped.Errors, 2)
	assert.Contains(t, sheet.Skipped.Errors[0].Error(), "subject M1: groups")
	assert.Contains(t, sheet.Skipped.Errors[1].Error(), "subject M2: rooms")
}

func TestNormalizeRooms(t *testing.T) {
	assert.Equal(t, []string{"R2", "R10"}, NormalizeRooms([]string{"R10", " R2", "R2", "", "R10 "}))
	assert.Nil(t, NormalizeRooms(nil))
}
