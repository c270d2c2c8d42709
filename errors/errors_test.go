// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package errors_test

import (
	"fmt"
	"testing"

	"github.com/jetsetilly/jvsemu/errors"
)

const testError = "test error: %s"
const testErrorB = "test error B: %s"

func TestDuplicateErrors(t *testing.T) {
	e := errors.Errorf(testError, "foo")
	if e.Error() != "test error: foo" {
		t.Fatalf("got %q", e.Error())
	}

	// packing errors of the same type next to each other causes one of
	// them to be dropped
	f := errors.Errorf(testError, e)
	if f.Error() != "test error: foo" {
		t.Fatalf("got %q", f.Error())
	}
}

func TestIs(t *testing.T) {
	e := errors.Errorf(testError, "foo")
	if !errors.Is(e, testError) {
		t.Fatal("expected Is to succeed")
	}
	if errors.Has(e, testErrorB) {
		t.Fatal("expected Has to fail, testErrorB was never included")
	}

	f := errors.Errorf(testErrorB, e)
	if errors.Is(f, testError) {
		t.Fatal("expected Is to fail")
	}
	if !errors.Is(f, testErrorB) {
		t.Fatal("expected Is to succeed")
	}
	if !errors.Has(f, testError) {
		t.Fatal("expected Has to succeed")
	}
	if !errors.Has(f, testErrorB) {
		t.Fatal("expected Has to succeed")
	}

	if !errors.IsAny(e) || !errors.IsAny(f) {
		t.Fatal("expected IsAny to succeed for both")
	}
}

func TestPlainErrors(t *testing.T) {
	e := fmt.Errorf("plain test error")
	if errors.IsAny(e) {
		t.Fatal("plain errors should not be curated")
	}
	if errors.Has(e, testError) {
		t.Fatal("plain errors should not match Has")
	}
}
