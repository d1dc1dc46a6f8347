package models

// Object is a blob read from the object store together with the attributes
// the pipeline needs: its content type and the user metadata attached at
// upload time (keys are lowercased by the store).
type Object struct {
	Body        []byte
	ContentType string
	Metadata    map[string]string
}
