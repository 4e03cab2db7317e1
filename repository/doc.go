/*
 * Copyright 2025 the bookkeeper authors.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package repository provides generic durable CRUD for model shapes.
//
// A shape is a bun-tagged struct with a reserved pk column and canonical
// primary key accessors (the Model interface). One repository serves one
// shape; instances are not safe for concurrent use from multiple goroutines
// without external serialization, and every operation commits on its own.
package repository
