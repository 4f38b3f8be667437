package fileoperation

import (
	"context"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

// FileOperationNodeFactory creates FileOperationNode instances sharing one
// file manager.
type FileOperationNodeFactory struct {
	files protocol.FileManager
}

// NewFileOperationNodeFactory creates a new factory around a file manager.
func NewFileOperationNodeFactory(files protocol.FileManager) protocol.NodeFactory {
	return &FileOperationNodeFactory{files: files}
}

// Create creates a new FileOperationNode instance.
func (f *FileOperationNodeFactory) Create(_ context.Context) (protocol.NodeHandler, error) {
	return NewFileOperationNode(f.files), nil
}

// ID returns the node type this factory serves.
func (f *FileOperationNodeFactory) ID() string {
	return models.NodeTypeFileOperation
}

// Name returns the factory name.
func (f *FileOperationNodeFactory) Name() string {
	return "File Operation"
}

// Description returns the factory description.
func (f *FileOperationNodeFactory) Description() string {
	return "Performs sandboxed file and folder operations"
}

// Schema returns the JSON schema for file_operation node configuration.
func (f *FileOperationNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type": "string",
				"enum": []any{"readFile", "writeFile", "deleteFile", "createFolder", "deleteFolder"},
			},
			"path": map[string]any{
				"type":        "string",
				"description": "Path relative to the sandbox base directory",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Content for writeFile",
			},
		},
		"required": []string{"action"},
	}
}
