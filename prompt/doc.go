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


// Package prompt holds the prompt templates used to ask the completion
// service questions about transcript excerpts.
//
// Templates use Go template syntax and are rendered with three variables:
//
//   - question: the user's question
//   - context: the retrieved passage texts, joined in rank order
//   - existing_answer: the previous raw completion during a refine pass,
//     empty otherwise
//
// A template instructs the model to put its reasoning inside one marker
// pair and its final answer inside another. The built-in template,
// DefaultTemplateName, uses <context_analysis> and <response>. The same
// template serves both the first answer and every refine pass.
//
// # Usage
//
//	store := prompt.NewStore()
//	if err := store.Register("terse", customText); err != nil {
//	    return err
//	}
//	tmpl, err := store.Get("terse")
//	text, err := tmpl.Format(question, context, "")
package prompt
