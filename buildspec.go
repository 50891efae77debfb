package spadeploy

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awscodebuild"
	"github.com/aws/jsii-runtime-go"
)

type buildSpecKind int

const (
	buildSpecDefault buildSpecKind = iota
	buildSpecObject
	buildSpecSourceFile
)

// BuildSpecOption selects the CodeBuild build specification. The zero value
// is DefaultBuildSpec.
type BuildSpecOption struct {
	kind     buildSpecKind
	document map[string]any
	filename string
}

// DefaultBuildSpec uses DefaultBuildSpecDocument.
func DefaultBuildSpec() BuildSpecOption {
	return BuildSpecOption{kind: buildSpecDefault}
}

// BuildSpecFromObject uses document verbatim as the inline build spec.
// A nil document falls back to the default.
func BuildSpecFromObject(document map[string]any) BuildSpecOption {
	if document == nil {
		return DefaultBuildSpec()
	}
	return BuildSpecOption{kind: buildSpecObject, document: document}
}

// BuildSpecFromSourceFile points CodeBuild at a file in the source tree
// (e.g. "buildspec.yml"); the file is not read or inlined. An empty name
// falls back to the default.
func BuildSpecFromSourceFile(filename string) BuildSpecOption {
	if filename == "" {
		return DefaultBuildSpec()
	}
	return BuildSpecOption{kind: buildSpecSourceFile, filename: filename}
}

// DefaultBuildSpecDocument returns a fresh copy of the build spec used when
// none is supplied: install dependencies, run the build script and publish
// everything under dist/.
func DefaultBuildSpecDocument() map[string]any {
	return map[string]any{
		"version": "0.2",
		"phases": map[string]any{
			"install": map[string]any{
				"runtime-versions": map[string]any{
					"nodejs": "20",
				},
			},
			"build": map[string]any{
				"commands": []any{
					"npm install",
					"npm run build",
				},
			},
		},
		"artifacts": map[string]any{
			"files":          []any{"**/*"},
			"base-directory": "dist",
		},
	}
}

// Document returns the inline document this option resolves to, or false
// when the spec is a source file reference.
func (b BuildSpecOption) Document() (map[string]any, bool) {
	switch b.kind {
	case buildSpecObject:
		return b.document, true
	case buildSpecSourceFile:
		return nil, false
	default:
		return DefaultBuildSpecDocument(), true
	}
}

// SourceFile returns the referenced filename, if any.
func (b BuildSpecOption) SourceFile() (string, bool) {
	return b.filename, b.kind == buildSpecSourceFile
}

func (b BuildSpecOption) buildSpec() awscodebuild.BuildSpec {
	if filename, ok := b.SourceFile(); ok {
		return awscodebuild.BuildSpec_FromSourceFilename(jsii.String(filename))
	}
	document, _ := b.Document()
	return awscodebuild.BuildSpec_FromObject(&document)
}

func (b BuildSpecOption) String() string {
	switch b.kind {
	case buildSpecObject:
		return "object"
	case buildSpecSourceFile:
		return "file"
	default:
		return "default"
	}
}
