package shell

import (
	"encoding/json"

	"github.com/abiosoft/ishell"
	"github.com/ddvk/rmraster/notebook"
)

type NotebookJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PageCount int    `json:"pageCount"`
	Pages     int    `json:"pages"`
}

func NotebookToJSON(nb *notebook.Notebook) NotebookJSON {
	return NotebookJSON{
		ID:        nb.UUID,
		Name:      nb.VisibleName,
		PageCount: nb.PageCount,
		Pages:     len(nb.Pages),
	}
}

func NotebooksJSON(notebooks []notebook.Notebook) []NotebookJSON {
	jsonNodes := make([]NotebookJSON, len(notebooks))
	for i := range notebooks {
		jsonNodes[i] = NotebookToJSON(&notebooks[i])
	}
	return jsonNodes
}

func displayNotebooksJSON(c *ishell.Context, notebooks []notebook.Notebook) error {
	output, err := json.MarshalIndent(NotebooksJSON(notebooks), "", "  ")
	if err != nil {
		return err
	}

	c.Println(string(output))
	return nil
}
