// Package fileoperation dispatches file actions to the sandboxed File
// Operations collaborator.
package fileoperation

import (
	"context"
	"errors"
	"fmt"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/models"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
	"github.com/zixiu905-prog/ai-platform-sub005/pkg/template"
)

// FileOperationNode routes config.action to the file manager.
type FileOperationNode struct {
	files protocol.FileManager
}

// NewFileOperationNode creates a file operation handler around a manager.
func NewFileOperationNode(files protocol.FileManager) *FileOperationNode {
	return &FileOperationNode{files: files}
}

// Execute resolves path/content parameters and performs the configured
// action.
func (n *FileOperationNode) Execute(ctx context.Context, execution *models.Execution, node *models.Node) (map[string]any, error) {
	if n.files == nil {
		return nil, errors.New("file manager is not configured")
	}

	action, ok := node.ConfigString("action")
	if !ok || action == "" {
		return nil, errors.New("file_operation node requires a config 'action'")
	}

	params := template.ResolveParameters(node.Parameters, execution.Context)

	path, _ := params["path"].(string)
	if path == "" {
		return nil, errors.New("file_operation node requires a 'path' parameter")
	}

	var (
		result *protocol.FileResult
		err    error
	)

	switch action {
	case "readFile":
		result, err = n.files.ReadFile(ctx, path)
	case "writeFile":
		content, _ := params["content"].(string)
		result, err = n.files.WriteFile(ctx, path, content)
	case "deleteFile":
		result, err = n.files.DeleteFile(ctx, path)
	case "createFolder":
		result, err = n.files.CreateFolder(ctx, path)
	case "deleteFolder":
		result, err = n.files.DeleteFolder(ctx, path)
	default:
		return nil, fmt.Errorf("unknown file action '%s'", action)
	}

	if err != nil {
		return nil, fmt.Errorf("file action '%s' on '%s' failed: %w", action, path, err)
	}

	payload := map[string]any{
		"status": result.Status,
		"path":   result.Path,
	}

	if result.Content != "" {
		payload["content"] = result.Content
	}

	if result.Size > 0 {
		payload["size"] = result.Size
	}

	return payload, nil
}
