// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vsmodpack/vsmodpack/internal/issue"
	"github.com/vsmodpack/vsmodpack/pkg/fspath"
	"github.com/vsmodpack/vsmodpack/pkg/modinfo"
	"github.com/vsmodpack/vsmodpack/pkg/modpack"
	"github.com/vsmodpack/vsmodpack/pkg/types"
)

type (
	// Options are the inputs of one packaging run.
	Options struct {
		// ProjectDir holds modinfo.json or modinfo.yaml.
		ProjectDir types.FilesystemPath
		// OutputDir is the build output directory. modinfo.json is written here
		// and the archive is assembled from its files.
		OutputDir types.FilesystemPath
		// AssemblyName is the fallback mod id.
		AssemblyName string
		// BuildVersion is the version reported by the build.
		BuildVersion string
		// VersionOverride replaces BuildVersion when non-blank.
		VersionOverride string
		// ModInfoType is "auto", "json" or "yaml".
		ModInfoType string
		// MakeZip enables archive assembly.
		MakeZip bool
		// VersionZipName appends the version to the archive name.
		VersionZipName bool
		// Include and Exclude are semicolon-separated relative paths.
		Include string
		Exclude string
	}

	// Result describes a completed run.
	Result struct {
		// Source is the manifest file that was loaded.
		Source *modinfo.Source
		// ModInfo is the resolved manifest (unresolved for Check).
		ModInfo *modinfo.ModInfo
		// ManifestPath is the written modinfo.json, empty for Check.
		ManifestPath types.FilesystemPath
		// Archive is set when an archive was assembled.
		Archive *modpack.Result
		// Warnings are the lint notes for the manifest.
		Warnings []string
	}

	// plan holds options after the configuration checks.
	plan struct {
		projectDir types.FilesystemPath
		outputDir  types.FilesystemPath
		format     modinfo.Format
		version    string
		include    []string
		exclude    []string
	}
)

// EffectiveVersion returns VersionOverride when non-blank, else BuildVersion.
func (o Options) EffectiveVersion() string {
	if strings.TrimSpace(o.VersionOverride) != "" {
		return o.VersionOverride
	}
	return o.BuildVersion
}

// Run executes the pipeline: configuration checks, load, resolve, write and,
// when MakeZip is set, archive assembly. A nil logger discards output.
func Run(opts Options, logger *log.Logger) (*Result, error) {
	logger = orDiscard(logger)

	p, err := opts.plan(true)
	if err != nil {
		return nil, err
	}

	src, err := load(p, logger)
	if err != nil {
		return nil, err
	}
	m := src.ModInfo

	if err := m.Resolve(opts.AssemblyName, p.version); err != nil {
		return nil, validationError(err, src.Path)
	}
	logger.Debug("resolved mod info", "modId", m.ID(), "version", p.version)

	if opts.MakeZip {
		if err := modpack.ValidateIdentifier(m.ID()); err != nil {
			return nil, identifierError(err, src.Path)
		}
	}

	warnings := m.Lint()
	for _, w := range warnings {
		logger.Warn(w, "file", src.Path)
	}

	manifestPath, err := modinfo.Write(m, p.outputDir)
	if err != nil {
		return nil, writeError(err, p.outputDir)
	}
	logger.Info("wrote mod info", "path", manifestPath)

	result := &Result{
		Source:       src,
		ModInfo:      m,
		ManifestPath: manifestPath,
		Warnings:     warnings,
	}

	if !opts.MakeZip {
		return result, nil
	}

	archive, err := modpack.Assemble(modpack.AssembleOptions{
		OutputDir:     p.outputDir,
		Include:       p.include,
		Exclude:       p.exclude,
		ModID:         m.ID(),
		Version:       p.version,
		VersionInName: opts.VersionZipName,
		ManifestPath:  manifestPath,
	})
	if err != nil {
		return nil, archiveError(err, p.outputDir)
	}
	logger.Info("assembled archive", "path", archive.ArchivePath, "files", len(archive.Entries))

	result.Archive = archive
	return result, nil
}

// Check loads the manifest and reports problems without resolving or writing
// anything. Only ProjectDir and ModInfoType are used.
func Check(opts Options, logger *log.Logger) (*Result, error) {
	logger = orDiscard(logger)

	p, err := opts.plan(false)
	if err != nil {
		return nil, err
	}

	src, err := load(p, logger)
	if err != nil {
		return nil, err
	}

	if err := src.ModInfo.Validate(); err != nil {
		return nil, validationError(err, src.Path)
	}
	if err := modinfo.CheckSchema(src.ModInfo); err != nil {
		return nil, validationError(err, src.Path)
	}

	return &Result{
		Source:   src,
		ModInfo:  src.ModInfo,
		Warnings: src.ModInfo.Lint(),
	}, nil
}

// plan performs every configuration check that needs no file access. With
// full unset only the project directory and format are checked.
func (o Options) plan(full bool) (*plan, error) {
	var p plan
	var err error

	if err = o.ProjectDir.Validate(); err != nil {
		return nil, configError(err, "project directory")
	}
	p.projectDir = normalizeDir(o.ProjectDir)

	if p.format, err = modinfo.ParseFormat(o.ModInfoType); err != nil {
		return nil, configError(err, "modinfo_type")
	}

	if !full {
		return &p, nil
	}

	if err = o.OutputDir.Validate(); err != nil {
		return nil, configError(err, "output directory")
	}
	p.outputDir = normalizeDir(o.OutputDir)

	p.include = modpack.ParseList(o.Include)
	p.exclude = modpack.ParseList(o.Exclude)
	if _, err = modpack.Select(p.include, p.exclude); err != nil {
		return nil, selectionError(err)
	}

	if strings.TrimSpace(o.AssemblyName) == "" {
		return nil, configError(ErrMissingAssemblyName, "assembly name")
	}

	p.version = o.EffectiveVersion()
	if strings.TrimSpace(p.version) == "" {
		return nil, configError(ErrMissingVersion, "version")
	}

	return &p, nil
}

func load(p *plan, logger *log.Logger) (*modinfo.Source, error) {
	src, err := modinfo.Load(p.projectDir, p.format)
	if err != nil {
		return nil, loadError(err, p.projectDir, p.format)
	}
	logger.Info("found mod info", "path", src.Path, "format", src.Format)
	return src, nil
}

// normalizeDir strips trailing separators but never turns a root into "".
func normalizeDir(dir types.FilesystemPath) types.FilesystemPath {
	if n := fspath.NormalizePath(dir); n != "" {
		return n
	}
	return dir
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}

func configError(err error, resource string) error {
	return issue.NewErrorContext().
		WithOperation("read packaging options").
		WithResource(resource).
		WithIssue(issue.ConfigInvalidId).
		Wrap(err).
		BuildError()
}

func loadError(err error, projectDir types.FilesystemPath, format modinfo.Format) error {
	ctx := issue.NewErrorContext().
		WithOperation("load mod info").
		WithResource(projectDir.String())

	switch {
	case errors.Is(err, modinfo.ErrNotFound):
		ctx.WithIssue(issue.ManifestNotFoundId)
		if format != modinfo.FormatAuto {
			ctx.WithSuggestions(
				"Create "+format.FileName()+" in the project directory",
				"Use modinfo_type 'auto' to accept either file",
			)
		} else {
			ctx.WithSuggestion("Create modinfo.json or modinfo.yaml in the project directory")
		}
	case errors.Is(err, modinfo.ErrParse):
		ctx.WithIssue(issue.ManifestParseErrorId).
			WithSuggestion("Fix the syntax error in the file named above")
	case errors.Is(err, fs.ErrPermission):
		ctx.WithIssue(issue.PermissionDeniedId)
	}

	return ctx.Wrap(err).BuildError()
}

func selectionError(err error) error {
	ctx := issue.NewErrorContext().WithOperation("select archive files")
	if errors.Is(err, modpack.ErrInvalidEntry) {
		ctx.WithIssue(issue.ConfigInvalidId).
			WithSuggestion("List include entries relative to the output directory")
	} else {
		ctx.WithIssue(issue.SelectionConflictId).
			WithSuggestion("Set either include or exclude, not both")
	}
	return ctx.Wrap(err).BuildError()
}

func identifierError(err error, path types.FilesystemPath) error {
	return issue.NewErrorContext().
		WithOperation("validate mod info").
		WithResource(path.String()).
		WithIssue(issue.ManifestInvalidId).
		WithSuggestions(
			"Use a modId without path separators",
			"Remove modId to fall back to the assembly name",
		).
		Wrap(err).
		BuildError()
}

func validationError(err error, path types.FilesystemPath) error {
	return issue.NewErrorContext().
		WithOperation("validate mod info").
		WithResource(path.String()).
		WithIssue(issue.ManifestInvalidId).
		WithSuggestion("Run 'vsmodpack validate' after editing the manifest").
		Wrap(err).
		BuildError()
}

func writeError(err error, outputDir types.FilesystemPath) error {
	ctx := issue.NewErrorContext().
		WithOperation("write mod info").
		WithResource(outputDir.String())

	switch Kind(err) {
	case KindValidation:
		ctx.WithIssue(issue.ManifestInvalidId)
	default:
		if errors.Is(err, fs.ErrPermission) {
			ctx.WithIssue(issue.PermissionDeniedId)
		}
		ctx.WithSuggestion("Check that the output directory is writable")
	}

	return ctx.Wrap(err).BuildError()
}

func archiveError(err error, outputDir types.FilesystemPath) error {
	ctx := issue.NewErrorContext().
		WithOperation("assemble archive").
		WithResource(outputDir.String())

	switch {
	case errors.Is(err, fs.ErrPermission):
		ctx.WithIssue(issue.PermissionDeniedId)
	default:
		ctx.WithIssue(issue.ArchiveFailedId)
		if errors.Is(err, fs.ErrNotExist) {
			ctx.WithSuggestion("Check that every include entry exists in the output directory")
		}
	}

	return ctx.Wrap(err).BuildError()
}
