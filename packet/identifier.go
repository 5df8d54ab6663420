package packet

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

const DefaultNamespace = "minecraft"

var ErrInvalidIdentifier = errors.New("invalid identifier")

// Identifier is a namespaced key such as "minecraft:stone".
type Identifier struct {
	namespace string
	path      string
}

// NewIdentifier validates namespace and path. An empty namespace means
// DefaultNamespace.
func NewIdentifier(namespace, path string) (Identifier, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	if !validIdentifierPart(namespace, false) {
		return Identifier{}, fmt.Errorf("%w: bad namespace %q", ErrInvalidIdentifier, namespace)
	}
	if !validIdentifierPart(path, true) {
		return Identifier{}, fmt.Errorf("%w: bad path %q", ErrInvalidIdentifier, path)
	}

	return Identifier{namespace: namespace, path: path}, nil
}

// ParseIdentifier splits s on its first colon. Without one, the whole string
// is the path in DefaultNamespace.
func ParseIdentifier(s string) (Identifier, error) {
	namespace, path, found := strings.Cut(s, ":")
	if !found {
		return NewIdentifier(DefaultNamespace, s)
	}
	return NewIdentifier(namespace, path)
}

func MustParseIdentifier(s string) Identifier {
	id, err := ParseIdentifier(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id Identifier) Namespace() string {
	if id.namespace == "" {
		return DefaultNamespace
	}
	return id.namespace
}

func (id Identifier) Path() string {
	return id.path
}

func (id Identifier) String() string {
	return id.Namespace() + ":" + id.path
}

func validIdentifierPart(s string, isPath bool) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '_', c == '.', c == '-':
		case c == '/' && isPath:
		default:
			return false
		}
	}
	return true
}

func WriteIdentifier(w io.Writer, v Identifier) error {
	return WriteString(w, v.String())
}

func ReadIdentifier(r Reader) (v Identifier, err error) {
	s, err := ReadString(r)
	if err != nil {
		return
	}

	v, err = ParseIdentifier(s)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return
}
