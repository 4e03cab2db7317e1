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

package utils

import (
	"fmt"
	"strings"
)

// TreeNode is one entry of a parsed outline: a name and the name of its
// parent, empty for top-level entries.
type TreeNode struct {
	Name   string
	Parent string
}

type treeLevel struct {
	name   string
	indent int
}

// ReadTree parses an indented text outline into a flat list of nodes in
// source order, each pointing at its parent by name. Children are indented
// deeper than their parent; dedenting must return to an indentation level
// already open on the current path, otherwise an error is returned.
//
//	food
//	    meat
//	        raw meat
//	    sweets
//	books
func ReadTree(lines []string) ([]TreeNode, error) {
	// Sentinel root so top-level entries resolve to an empty parent name.
	parents := []treeLevel{{name: "", indent: -1}}
	lastName := ""
	lastIndent := -1

	var nodes []TreeNode
	for i, line := range lines {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))

		switch {
		case indent > lastIndent:
			parents = append(parents, treeLevel{name: lastName, indent: lastIndent})
		case indent < lastIndent:
			popped := lastIndent
			for len(parents) > 1 && parents[len(parents)-1].indent >= indent {
				popped = parents[len(parents)-1].indent
				parents = parents[:len(parents)-1]
			}
			if popped != indent {
				return nil, fmt.Errorf("line %d: inconsistent indentation", i+1)
			}
		}

		nodes = append(nodes, TreeNode{Name: name, Parent: parents[len(parents)-1].name})
		lastName = name
		lastIndent = indent
	}
	return nodes, nil
}
