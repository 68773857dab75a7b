// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/poiesic/mithril/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock embedder and chat completer instances.
type MockProvider struct {
	embedder *MockEmbedder
	chat     *MockChatCompleter
	closed   bool
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockChatCompleter() to access concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder: NewMockEmbedder(),
		chat:     NewMockChatCompleter(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
func NewMockProviderWithServices(embedder *MockEmbedder, chat *MockChatCompleter) *MockProvider {
	return &MockProvider{
		embedder: embedder,
		chat:     chat,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// ChatCompleter returns the mock chat completer.
func (p *MockProvider) ChatCompleter() ai.ChatCompleter {
	return p.chat
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockChatCompleter returns the underlying mock chat completer for test assertions.
func (p *MockProvider) GetMockChatCompleter() *MockChatCompleter {
	return p.chat
}
