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


// Package ingestion loads transcripts into a passage collection.
//
// It is development tooling for populating the index the query pipeline
// reads from; the pipeline itself never imports it. The flow is:
//
//   - ReadTranscriptsCSV reads transcripts from a CSV export with a
//     "Transcript" column and an optional "Video URL" column.
//   - A Chunker splits each transcript into overlapping passages.
//   - A Loader embeds passages in batches on a worker pool, retrying
//     failed embedding calls under a RetryPolicy, and stores them.
//
// Passage IDs are derived from content, so loading the same CSV twice
// stores nothing new and makes no embedding calls for known passages.
package ingestion
