package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/taskflow-ai/taskflow-api/internal/domain"
)

// SchemaType is the JSON type of a SchemaNode.
type SchemaType string

// Supported schema types.
const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
)

// SchemaNode is a provider-neutral description of a JSON value. Providers
// translate it into their own response-schema format.
type SchemaNode struct {
	Type        SchemaType
	Description string
	// Format is a hint such as "date" for string values.
	Format   string
	Nullable bool
	// Properties and Required apply to objects, Items to arrays.
	Properties map[string]*SchemaNode
	Required   []string
	Items      *SchemaNode
}

// Schema declares the shape of a structured response and decodes raw model
// output into a Go value of that shape.
type Schema interface {
	Name() string
	Node() *SchemaNode
	// Decode returns the decoded value, or an error matching
	// ErrSchemaValidation when raw cannot be coerced.
	Decode(raw string) (any, error)
}

// TaskListSchema is the schema of the task extraction response:
//
//	{"tasks": [{"description": "...", "due_date": "YYYY-MM-DD" | null}]}
//
// Decode returns []domain.ExtractedTask in the order the model emitted them.
type TaskListSchema struct {
	validate *validator.Validate
}

// NewTaskListSchema creates the task list schema.
func NewTaskListSchema() *TaskListSchema {
	return &TaskListSchema{validate: validator.New()}
}

type taskListPayload struct {
	Tasks []taskPayload `json:"tasks" validate:"dive"`
}

type taskPayload struct {
	Description string  `json:"description" validate:"required"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// Name implements Schema.
func (s *TaskListSchema) Name() string {
	return "task_list"
}

// Node implements Schema.
func (s *TaskListSchema) Node() *SchemaNode {
	return &SchemaNode{
		Type: TypeObject,
		Properties: map[string]*SchemaNode{
			"tasks": {
				Type:        TypeArray,
				Description: "Action items found in the meeting notes, in the order they appear.",
				Items: &SchemaNode{
					Type: TypeObject,
					Properties: map[string]*SchemaNode{
						"description": {
							Type:        TypeString,
							Description: "Short description of the task.",
						},
						"due_date": {
							Type:        TypeString,
							Description: "Due date in YYYY-MM-DD format, or null if none is stated.",
							Format:      "date",
							Nullable:    true,
						},
					},
					Required: []string{"description"},
				},
			},
		},
		Required: []string{"tasks"},
	}
}

// Decode implements Schema.
func (s *TaskListSchema) Decode(raw string) (any, error) {
	object := extractJSONObject(raw)
	if object == "" {
		return nil, newSchemaValidationError(s.Name(), "no JSON object in output", nil)
	}

	var payload taskListPayload
	if err := json.Unmarshal([]byte(object), &payload); err != nil {
		payload = taskListPayload{}
		if err := json.Unmarshal([]byte(repairJSON(object)), &payload); err != nil {
			return nil, newSchemaValidationError(s.Name(), "malformed JSON", err)
		}
	}

	// A missing or null "tasks" key decodes to a nil slice; "[]" does not.
	if payload.Tasks == nil {
		return nil, newSchemaValidationError(s.Name(), "missing required field tasks", nil)
	}

	for i := range payload.Tasks {
		t := &payload.Tasks[i]
		t.Description = strings.TrimSpace(t.Description)
		if t.DueDate != nil && strings.TrimSpace(*t.DueDate) == "" {
			t.DueDate = nil
		}
	}

	if err := s.validate.Struct(payload); err != nil {
		return nil, newSchemaValidationError(s.Name(), describeValidation(err), err)
	}

	tasks := make([]domain.ExtractedTask, 0, len(payload.Tasks))
	for _, t := range payload.Tasks {
		extracted := domain.ExtractedTask{Description: t.Description}
		if t.DueDate != nil {
			d, err := domain.ParseDate(*t.DueDate)
			if err != nil {
				return nil, newSchemaValidationError(s.Name(), "bad due_date", err)
			}
			extracted.DueDate = &d
		}
		tasks = append(tasks, extracted)
	}

	return tasks, nil
}

// describeValidation turns validator errors into a short reason.
func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid value"
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("missing required field %s", fe.Namespace())
	case "datetime":
		return fmt.Sprintf("field %s is not a YYYY-MM-DD date", fe.Namespace())
	default:
		return fmt.Sprintf("field %s failed %s", fe.Namespace(), fe.Tag())
	}
}
