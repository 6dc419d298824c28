/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errInputClosed = errors.New("input closed before all values were entered")

// prompter asks questions on out and reads one answer line per question
// from in.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints question and returns the answer without its line ending.
// io.EOF is returned only when the input ends before any answer text.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// fill asks question only when *dst is still blank.
func (p *prompter) fill(dst *string, question string) error {
	if strings.TrimSpace(*dst) != "" {
		return nil
	}
	answer, err := p.ask(question)
	if errors.Is(err, io.EOF) {
		return errInputClosed
	}
	if err != nil {
		return err
	}
	*dst = strings.TrimSpace(answer)
	return nil
}

// cleanPath trims surrounding whitespace and one pair of matching quotes, as
// left behind by drag-and-drop into a terminal.
func cleanPath(path string) string {
	path = strings.TrimSpace(path)
	if len(path) >= 2 {
		first, last := path[0], path[len(path)-1]
		if first == last && (first == '"' || first == '\'') {
			path = strings.TrimSpace(path[1 : len(path)-1])
		}
	}
	return path
}
