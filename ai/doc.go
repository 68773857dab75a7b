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


// Package ai provides abstractions for the model services used by mithril.
//
// This package defines interfaces for the three external model
// collaborators: text embeddings, chat completion and token counting. Domain
// packages depend on these abstractions rather than on a vendor client.
//
// # Design Principles
//
// The package is designed around four interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - ChatCompleter: Sends a message list to a chat model
//   - Tokenizer: Counts tokens for budget checks
//   - AIProvider: Aggregates Embedder and ChatCompleter for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: OpenAI, Azure OpenAI or OpenAI-compatible servers via langchaingo
//   - ai/tiktoken: BPE token counting with tiktoken-go
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, ...) return
// INTERFACE types to enforce abstraction. Test utility constructors
// (mock.NewMockEmbedder, mock.NewMockChatCompleter) return CONCRETE types so
// tests can inject behavior and assert on call counts.
//
// # Errors
//
// Chat failures are reported as *ChatError. Its Retryable flag separates
// transient conditions (rate limits, timeouts, unavailable provider) from
// fatal ones (authentication, malformed request, content filter); retry
// policies consult IsRetryable. Embedding failures are reported as
// *EmbeddingError.
//
// # Usage Example
//
//	config := ai.NewConfig(
//	    ai.WithAPIType(ai.APITypeAzure),
//	    ai.WithHost(os.Getenv("AZURE_OPENAI_ENDPOINT")),
//	    ai.WithAPIKey(os.Getenv("AZURE_OPENAI_API_KEY")),
//	)
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "Which customers are in the East CSU?")
//	reply, err := provider.ChatCompleter().Complete(ctx, []ai.Message{ai.UserMessage("Hello")})
package ai
