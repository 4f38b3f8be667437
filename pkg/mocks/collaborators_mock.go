package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/protocol"
)

// MockAIProvider is a mock implementation of protocol.AIProvider.
type MockAIProvider struct {
	mock.Mock
}

func (m *MockAIProvider) Chat(ctx context.Context, req protocol.AIRequest) (*protocol.AIResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*protocol.AIResult), args.Error(1)
}

// MockScriptRunner is a mock implementation of protocol.ScriptRunner.
type MockScriptRunner struct {
	mock.Mock
}

func (m *MockScriptRunner) Execute(ctx context.Context, scriptIDOrSource string, params map[string]any) (*protocol.ScriptResult, error) {
	args := m.Called(ctx, scriptIDOrSource, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*protocol.ScriptResult), args.Error(1)
}

func (m *MockScriptRunner) ExecuteTypeScript(ctx context.Context, source string, params map[string]any) (*protocol.ScriptResult, error) {
	args := m.Called(ctx, source, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*protocol.ScriptResult), args.Error(1)
}

func (m *MockScriptRunner) ExecutePython(ctx context.Context, source string, params map[string]any) (*protocol.ScriptResult, error) {
	args := m.Called(ctx, source, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*protocol.ScriptResult), args.Error(1)
}

func (m *MockScriptRunner) ValidateScript(source, language string) *protocol.ScriptValidation {
	args := m.Called(source, language)

	return args.Get(0).(*protocol.ScriptValidation)
}

// MockSoftwareIntegrator is a mock implementation of
// protocol.SoftwareIntegrator.
type MockSoftwareIntegrator struct {
	mock.Mock
}

func (m *MockSoftwareIntegrator) Integrate(ctx context.Context, softwareID string) (*protocol.IntegrationResult, error) {
	args := m.Called(ctx, softwareID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*protocol.IntegrationResult), args.Error(1)
}

// MockFileManager is a mock implementation of protocol.FileManager.
type MockFileManager struct {
	mock.Mock
}

func (m *MockFileManager) ReadFile(ctx context.Context, path string) (*protocol.FileResult, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*protocol.FileResult), args.Error(1)
}

func (m *MockFileManager) WriteFile(ctx context.Context, path, content string) (*protocol.FileResult, error) {
	args := m.Called(ctx, path, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*protocol.FileResult), args.Error(1)
}

func (m *MockFileManager) DeleteFile(ctx context.Context, path string) (*protocol.FileResult, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*protocol.FileResult), args.Error(1)
}

func (m *MockFileManager) CreateFolder(ctx context.Context, path string) (*protocol.FileResult, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*protocol.FileResult), args.Error(1)
}

func (m *MockFileManager) DeleteFolder(ctx context.Context, path string) (*protocol.FileResult, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*protocol.FileResult), args.Error(1)
}
