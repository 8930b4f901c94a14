package links

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/students-demo/students-api/internal/types"
)

func persisted(id int64) types.Student {
	s := types.NewStudent("Ada", "Lovelace", "SOE", 300)
	s.ID = id
	return s
}

func TestToModel_RelativeLinks(t *testing.T) {
	a := NewAssembler("")

	m, err := a.ToModel(persisted(1))
	require.NoError(t, err)

	assert.Equal(t, "/students/1", m.Links[RelSelf].Href)
	assert.Equal(t, "/students", m.Links[RelStudents].Href)
	assert.Equal(t, "/students/1", m.SelfHref())
}

func TestToModel_BaseURL(t *testing.T) {
	a := NewAssembler("http://localhost:8082/")

	m, err := a.ToModel(persisted(42))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8082/students/42", m.SelfHref())
	assert.Equal(t, "http://localhost:8082/students", m.Links[RelStudents].Href)
}

func TestToModel_MissingID(t *testing.T) {
	_, err := NewAssembler("").ToModel(types.NewStudent("Ada", "Lovelace", "SOE", 300))
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestToModel_JSONShape(t *testing.T) {
	m, err := NewAssembler("").ToModel(persisted(1))
	require.NoError(t, err)

	raw, err := json.Marshal(m)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": 1,
		"firstName": "Ada",
		"lastName": "Lovelace",
		"department": "SOE",
		"level": 300,
		"_links": {
			"self": {"href": "/students/1"},
			"students": {"href": "/students"}
		}
	}`, string(raw))
}

func TestToCollection(t *testing.T) {
	c, err := NewAssembler("").ToCollection([]types.Student{persisted(1), persisted(2)})
	require.NoError(t, err)

	require.Len(t, c.Items(), 2)
	assert.Equal(t, "/students/2", c.Items()[1].SelfHref())
	assert.Equal(t, "/students", c.Links[RelSelf].Href)
}

func TestToCollection_EmptyEncodesAsArray(t *testing.T) {
	c, err := NewAssembler("").ToCollection(nil)
	require.NoError(t, err)

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"_embedded": {"studentList": []},
		"_links": {"self": {"href": "/students"}}
	}`, string(raw))
}

func TestToCollection_FailsOnUnsavedStudent(t *testing.T) {
	_, err := NewAssembler("").ToCollection([]types.Student{persisted(1), {}})
	assert.ErrorIs(t, err, ErrMissingID)
}
