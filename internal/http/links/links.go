// Package links builds the hypermedia representation of students: each
// student gets a self link and a link back to the collection, and the
// collection gets its own self link.
package links

import (
	"errors"
	"fmt"
	"strings"

	"github.com/students-demo/students-api/internal/types"
)

// Route templates. Keep in sync with the router.
const (
	CollectionPath = "/students"
	ItemPath       = "/students/%d"
)

// Relation names.
const (
	RelSelf     = "self"
	RelStudents = "students"
)

// ErrMissingID is returned when asked to link a student that was never
// persisted.
var ErrMissingID = errors.New("links: student has no id")

type Link struct {
	Href string `json:"href"`
}

// Links is keyed by relation name.
type Links map[string]Link

// StudentModel is a student plus its links. The embedded Student's fields
// are flattened into the JSON object next to "_links".
type StudentModel struct {
	types.Student
	Links Links `json:"_links"`
}

// SelfHref returns the self link, used for the Location header.
func (m StudentModel) SelfHref() string {
	return m.Links[RelSelf].Href
}

type embeddedStudents struct {
	StudentList []StudentModel `json:"studentList"`
}

// CollectionModel wraps the linked students and the collection self link.
type CollectionModel struct {
	Embedded embeddedStudents `json:"_embedded"`
	Links    Links            `json:"_links"`
}

// Items returns the linked students.
func (c CollectionModel) Items() []StudentModel {
	return c.Embedded.StudentList
}

// Assembler turns students into linked models. It is a pure function of
// its input and safe for concurrent use.
type Assembler struct {
	baseURL string
}

// NewAssembler returns an Assembler that prefixes every href with baseURL
// (e.g. "http://localhost:8082"). An empty baseURL yields relative links.
func NewAssembler(baseURL string) *Assembler {
	return &Assembler{baseURL: strings.TrimRight(baseURL, "/")}
}

func (a *Assembler) SelfHref(id int64) string {
	return a.baseURL + fmt.Sprintf(ItemPath, id)
}

func (a *Assembler) CollectionHref() string {
	return a.baseURL + CollectionPath
}

// ToModel attaches self and students links to s.
func (a *Assembler) ToModel(s types.Student) (StudentModel, error) {
	if s.IsNew() {
		return StudentModel{}, ErrMissingID
	}
	return StudentModel{
		Student: s,
		Links: Links{
			RelSelf:     {Href: a.SelfHref(s.ID)},
			RelStudents: {Href: a.CollectionHref()},
		},
	}, nil
}

// ToCollection links every student and adds the collection self link.
func (a *Assembler) ToCollection(students []types.Student) (CollectionModel, error) {
	models := make([]StudentModel, 0, len(students))
	for _, s := range students {
		m, err := a.ToModel(s)
		if err != nil {
			return CollectionModel{}, fmt.Errorf("link student: %w", err)
		}
		models = append(models, m)
	}
	return CollectionModel{
		Embedded: embeddedStudents{StudentList: models},
		Links:    Links{RelSelf: {Href: a.CollectionHref()}},
	}, nil
}
