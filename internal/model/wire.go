package model

// Actions routed by the function.
const (
	ActionList   = "getTodoItems"
	ActionAdd    = "addTodoItem"
	ActionUpdate = "updateTodoItem"
	ActionDelete = "deleteTodoItem"
)

// Intent is the payload a caller sends to the function.
type Intent struct {
	Action     string `json:"action"`
	TableName  string `json:"table_name"`
	HTTPMethod string `json:"httpMethod"`
	ID         string `json:"id,omitempty"`
	Completed  *bool  `json:"completed,omitempty"`
	// Body holds the JSON-encoded record for addTodoItem.
	Body string `json:"body,omitempty"`
}

// Message is the body of a successful mutation; Failure the body of any
// non-200 result.
type Message struct {
	Message string `json:"message"`
}

type Failure struct {
	Error string `json:"error"`
}
