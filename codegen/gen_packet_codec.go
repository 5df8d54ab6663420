//go:build ignore
// +build ignore

// gen_packet_codec writes zz_generated_codec.go for a packet directory.
//
// Types whose doc comment carries "@gen:" followed by options get generated
// code:
//
//	r          Decode(*FrameReader) on the pointer receiver
//	w          Encode(io.Writer) on the value receiver
//	regserver  entry in <File>ServerboundRegistry
//	regclient  entry in <File>ClientboundRegistry
//
// Registry keys come from a literal `return N` in the type's ID method. Only
// fields tagged `field:"Kind"` take part; Kind selects WriteKind/ReadKind.
// `inner:"T"` passes WriteT/ReadT to generic kinds, `write:` and `read:` name
// the element functions explicitly.
package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"text/template"
)

// Field is one serialized struct field.
type Field struct {
	Name      string // struct field name, e.g. "ProtocolVersion"
	FieldType string // codec kind, e.g. "VarInt", "PrefixedArray", "Optional"
	WriteFn   string
	ReadFn    string
}

// GeneratedStruct is a type marked with @gen.
type GeneratedStruct struct {
	Name              string
	Fields            []Field
	GenRead, GenWrite bool

	RegServerbound, RegClientbound bool
	PacketID                       string
}

type File struct {
	Name           string
	RegistryPrefix string
	Structs        []GeneratedStruct
}

func (f File) HasServerRegistry() bool {
	for _, s := range f.Structs {
		if s.RegServerbound {
			return true
		}
	}
	return false
}

func (f File) HasClientRegistry() bool {
	for _, s := range f.Structs {
		if s.RegClientbound {
			return true
		}
	}
	return false
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run gen_packet_codec.go -- path/to/dir")
		os.Exit(1)
	}
	targetDir := os.Args[len(os.Args)-1]

	pkgName, files := parseDir(targetDir)

	src := render(pkgName, files)
	outFile := filepath.Join(targetDir, "zz_generated_codec.go")
	if err := os.WriteFile(outFile, src, 0o644); err != nil {
		panic(err)
	}

	fmt.Printf("Generated %s for package %s\n", outFile, pkgName)
}

// parseDir collects the marked types of every hand-written file in dir, one
// File per source file so each gets its own registries.
func parseDir(dir string) (pkgName string, files []File) {
	fset := token.NewFileSet()
	paths, _ := filepath.Glob(filepath.Join(dir, "*.go"))

	for _, path := range paths {
		base := filepath.Base(path)
		if strings.HasPrefix(base, "zz_generated") || strings.HasSuffix(base, "_test.go") {
			continue
		}

		node, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			panic(err)
		}
		if pkgName == "" {
			pkgName = node.Name.Name
		}

		structs := parseFile(node)
		checkRegistryIDs(path, structs)
		if len(structs) == 0 {
			continue
		}

		// status.go -> Status
		name := strings.TrimSuffix(base, filepath.Ext(base))
		files = append(files, File{
			Name:           base,
			RegistryPrefix: strings.ToUpper(name[:1]) + name[1:],
			Structs:        structs,
		})
	}
	return
}

func parseFile(node *ast.File) (structs []GeneratedStruct) {
	ids := packetIDs(node)

	for _, decl := range node.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE || gen.Doc == nil {
			continue
		}

		opts, ok := genOptions(gen.Doc)
		if !ok {
			continue
		}

		for _, s := range gen.Specs {
			ts, ok := s.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}

			structs = append(structs, GeneratedStruct{
				Name:           ts.Name.Name,
				Fields:         structFields(st),
				GenRead:        opts["r"],
				GenWrite:       opts["w"],
				RegServerbound: opts["regserver"],
				RegClientbound: opts["regclient"],
				PacketID:       ids[ts.Name.Name],
			})
		}
	}
	return
}

// packetIDs maps receiver type names to the literal returned by their ID
// method.
func packetIDs(node *ast.File) map[string]string {
	ids := make(map[string]string)

	for _, decl := range node.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name.Name != "ID" || fn.Recv == nil || len(fn.Recv.List) == 0 || fn.Body == nil {
			continue
		}

		recv := fn.Recv.List[0].Type
		if star, ok := recv.(*ast.StarExpr); ok {
			recv = star.X
		}
		ident, ok := recv.(*ast.Ident)
		if !ok {
			continue
		}

		for _, stmt := range fn.Body.List {
			ret, ok := stmt.(*ast.ReturnStmt)
			if !ok || len(ret.Results) == 0 {
				continue
			}
			if lit, ok := ret.Results[0].(*ast.BasicLit); ok {
				ids[ident.Name] = lit.Value
			}
		}
	}
	return ids
}

// genOptions parses the first "@gen:a,b" line of doc.
func genOptions(doc *ast.CommentGroup) (opts map[string]bool, ok bool) {
	for _, c := range doc.List {
		_, rest, found := strings.Cut(c.Text, "@gen:")
		if !found {
			continue
		}

		opts = make(map[string]bool)
		for _, opt := range strings.Split(strings.TrimSpace(rest), ",") {
			opts[strings.TrimSpace(opt)] = true
		}
		return opts, true
	}
	return nil, false
}

func structFields(st *ast.StructType) (fields []Field) {
	for _, field := range st.Fields.List {
		var tag reflect.StructTag
		if field.Tag != nil {
			tag = reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
		}

		kind := tag.Get("field")
		if kind == "" {
			continue
		}

		writeFn, readFn := tag.Get("write"), tag.Get("read")
		if inner := tag.Get("inner"); inner != "" {
			writeFn, readFn = "Write"+inner, "Read"+inner
		}

		for _, name := range field.Names {
			fields = append(fields, Field{
				Name:      name.Name,
				FieldType: kind,
				WriteFn:   writeFn,
				ReadFn:    readFn,
			})
		}
	}
	return
}

// checkRegistryIDs stops generation when two packets of one file register
// the same id in the same direction.
func checkRegistryIDs(filePath string, structs []GeneratedStruct) {
	server := map[string]string{}
	client := map[string]string{}

	for _, s := range structs {
		if (s.RegServerbound || s.RegClientbound) && s.PacketID == "" {
			panic(fmt.Sprintf("%s: %s is registered but has no literal ID()", filePath, s.Name))
		}
		if s.RegServerbound {
			if prev, ok := server[s.PacketID]; ok {
				panic(fmt.Sprintf("%s: serverbound id %s used by %s and %s", filePath, s.PacketID, prev, s.Name))
			}
			server[s.PacketID] = s.Name
		}
		if s.RegClientbound {
			if prev, ok := client[s.PacketID]; ok {
				panic(fmt.Sprintf("%s: clientbound id %s used by %s and %s", filePath, s.PacketID, prev, s.Name))
			}
			client[s.PacketID] = s.Name
		}
	}
}

const codecTemplate = `// Code generated by gen_packet_codec.go; DO NOT EDIT.
package {{.PkgName}}

import (
	"io"
)
{{range .Files}}
// Source: {{.Name}}
{{- if .HasServerRegistry}}
var {{.RegistryPrefix}}ServerboundRegistry = map[int32]func() Packet{
{{- range .Structs}}
	{{- if .RegServerbound}}
	{{.PacketID}}: func() Packet { return &{{.Name}}{} },
	{{- end}}
{{- end}}
}
{{- end}}
{{- if .HasClientRegistry}}
var {{.RegistryPrefix}}ClientboundRegistry = map[int32]func() Packet{
{{- range .Structs}}
	{{- if .RegClientbound}}
	{{.PacketID}}: func() Packet { return &{{.Name}}{} },
	{{- end}}
{{- end}}
}
{{- end}}
{{range .Structs}}
{{- if .GenWrite}}
func (p {{.Name}}) Encode(w io.Writer) (err error) {
{{- range .Fields}}
	{{- if .WriteFn}}
	if err = Write{{.FieldType}}(w, p.{{.Name}}, {{.WriteFn}}); err != nil { return }
	{{- else}}
	if err = Write{{.FieldType}}(w, p.{{.Name}}); err != nil { return }
	{{- end}}
{{- end}}
	return
}
{{- end}}
{{if .GenRead}}
func (p *{{.Name}}) Decode(r *FrameReader) (err error) {
{{- range .Fields}}
	{{- if .ReadFn}}
	if p.{{.Name}}, err = Read{{.FieldType}}(r, {{.ReadFn}}); err != nil { return }
	{{- else}}
	if p.{{.Name}}, err = Read{{.FieldType}}(r); err != nil { return }
	{{- end}}
{{- end}}
	return nil
}
{{- end}}
{{end}}
{{- end}}
`

// render executes the template and gofmts the result.
func render(pkgName string, files []File) []byte {
	t := template.Must(template.New("codec").Parse(codecTemplate))

	var buf bytes.Buffer
	err := t.Execute(&buf, struct {
		PkgName string
		Files   []File
	}{pkgName, files})
	if err != nil {
		panic(err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		panic(fmt.Errorf("generated code does not parse: %w", err))
	}
	return src
}
