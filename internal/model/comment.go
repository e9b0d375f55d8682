package model

// Comment is an issue comment or a pull request review comment.
type Comment struct {
	ID     int64
	Author string
	Body   string
}

// FilePatch is one changed file of a pull request.
type FilePatch struct {
	Filename string
	Patch    string
}
