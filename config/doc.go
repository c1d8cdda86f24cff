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


// Package config reads colloquy settings from a TOML file.
//
// Every table is optional; missing values keep the defaults from Default.
// Unknown keys are rejected so typos surface instead of being ignored.
//
//	[index]
//	path = "colloquy.db"
//	collection = "founders"
//
//	[ai]
//	embedding_host = "http://localhost:11434"
//	embedding_model = "embeddinggemma"
//	completion_backend = "anthropic"
//	completion_model = "claude-sonnet-4-5"
//	max_output_tokens = 4096
//
//	[retrieval]
//	top_k = 8
//	timeout = "10s"
//
//	[synthesis]
//	mode = "refine"
//	refine_batch_size = 2
//	template = "founders"
//	timeout = "2m"
//
//	[ingestion]
//	chunk_size = 2048
//	chunk_overlap = 512
//
//	[prompts]
//	founders = """
//	...{{.context}}...{{.question}}...
//	"""
//
// API tokens are normally supplied through the environment rather than
// the file.
package config
