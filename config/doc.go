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


// Package config loads mithril's TOML configuration file.
//
// A file only needs the keys it changes:
//
//	[ai]
//	api_type = "azure"
//	embedding_host = "https://myres.openai.azure.com"
//	chat_host = "https://myres.openai.azure.com"
//	embedding_model = "text-embedding-ada-002"
//	chat_model = "gpt-4o"
//
//	[store]
//	backend = "qdrant"
//
//	[store.qdrant]
//	host = "qdrant.internal"
//
//	[chat]
//	scope = "West"
//	retry_delay = "5s"
package config
