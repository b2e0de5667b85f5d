package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type branding struct {
	SchoolName string
	LogoURL    string
}

func TestTemplatesParse(t *testing.T) {
	tpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{PageHome, PageAdmission, PageConfirmation, PageNotices, PageError} {
		assert.NotNil(t, tpl.Lookup(name), name)
	}
}

func TestErrorPageEscapes(t *testing.T) {
	tpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tpl.ExecuteTemplate(&buf, PageError, map[string]interface{}{
		"Title":    "Error",
		"Branding": branding{SchoolName: "Our School", LogoURL: "/assets/img/logo.png"},
		"Heading":  "Not found",
		"Message":  "<script>x</script>",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Not found")
	assert.NotContains(t, buf.String(), "<script>x</script>")
}

func TestAdmissionPageEchoesValues(t *testing.T) {
	tpl, err := Templates()
	require.NoError(t, err)

	type class struct {
		ID   int64
		Name string
	}
	var buf bytes.Buffer
	err = tpl.ExecuteTemplate(&buf, PageAdmission, map[string]interface{}{
		"Title":    "Admission",
		"Branding": branding{SchoolName: "Our School"},
		"Classes":  []class{{ID: 1, Name: "Class 1"}, {ID: 2, Name: "Class 2"}},
		"Genders":  []string{"Male", "Female", "Other"},
		"Form":     map[string]string{"fullname": "Ram Shrestha", "class_id": "2", "gender": "Female"},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `value="Ram Shrestha"`)
	assert.Contains(t, out, `<option value="2" selected>Class 2</option>`)
	assert.Contains(t, out, `<option value="Female" selected>Female</option>`)
}
