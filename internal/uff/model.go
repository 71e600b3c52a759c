package uff

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Model is a decoded UFF model.
type Model struct {
	Format  string   // "UFF" with an optional " vN" suffix
	Imports []string // "id vN" per descriptor
	Graphs  []*Graph
}

// NewModel resolves references and builds every graph of the record.
// The record's ref fields are replaced in place.
func NewModel(meta *MetaGraph, opt LoadOptions) (*Model, error) {
	opt = opt.withDefaults()
	log := opt.Logger

	model := &Model{
		Format:  formatName(meta.Version),
		Imports: make([]string, len(meta.Descriptors)),
		Graphs:  make([]*Graph, len(meta.Graphs)),
	}
	for i, d := range meta.Descriptors {
		model.Imports[i] = importName(d)
	}

	references := NewReferenceTable(meta.ReferencedData)
	if n := references.Resolve(meta.Graphs, log); n > 0 {
		log.WithField("count", n).Debug("unresolved references left as ref attributes")
	}

	build := func(i int) error {
		start := time.Now()
		g, err := NewGraph(opt.Metadata, &meta.Graphs[i], log.WithField("graph", meta.Graphs[i].ID))
		if err != nil {
			return errors.Wrapf(err, "graph '%s'", meta.Graphs[i].ID)
		}
		model.Graphs[i] = g
		log.WithFields(logrus.Fields{
			"graph":    g.Name,
			"nodes":    len(g.Nodes),
			"inputs":   len(g.Inputs),
			"outputs":  len(g.Outputs),
			"duration": time.Since(start),
		}).Debug("built graph")
		return nil
	}

	if !opt.Parallel {
		for i := range meta.Graphs {
			if err := build(i); err != nil {
				return nil, err
			}
		}
		return model, nil
	}

	var eg errgroup.Group
	for i := range meta.Graphs {
		i := i
		eg.Go(func() error {
			return build(i)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return model, nil
}

func formatName(version int64) string {
	if version == 0 {
		return "UFF"
	}
	return fmt.Sprintf("UFF v%d", version)
}

func importName(d Descriptor) string {
	return fmt.Sprintf("%s v%d", d.ID, d.Version)
}
