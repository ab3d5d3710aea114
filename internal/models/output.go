package models

// Output is the generated source for one document together with the file
// name suggested for it. FileName carries no extension; choosing one is up
// to whoever writes the file.
type Output struct {
	Code     string `json:"code"`
	FileName string `json:"file_name"`
}
