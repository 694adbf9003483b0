package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/project"
	"github.com/matzehuels/depsync/pkg/reconcile"
	"github.com/matzehuels/depsync/pkg/report"
)

type nodeList struct {
	Module string        `json:"module"`
	Nodes  []report.Node `json:"nodes"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "resident": s.cfg.Engine.Resident()})
}

func (s *Server) listModules(w http.ResponseWriter, _ *http.Request) {
	modules := s.cfg.Modules
	if modules == nil {
		modules = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"modules": modules})
}

func (s *Server) dependencies(w http.ResponseWriter, r *http.Request) {
	s.nodes(w, r, (*reconcile.Engine).ForEachDependency)
}

func (s *Server) declared(w http.ResponseWriter, r *http.Request) {
	s.nodes(w, r, (*reconcile.Engine).ForEachDeclaredDependency)
}

type iterator func(*reconcile.Engine, context.Context, project.Module, func(*reconcile.Node)) error

func (s *Server) nodes(w http.ResponseWriter, r *http.Request, each iterator) {
	m, ok := s.module(w, r)
	if !ok {
		return
	}
	var nodes []*reconcile.Node
	if err := each(s.cfg.Engine, r.Context(), m, func(n *reconcile.Node) { nodes = append(nodes, n) }); err != nil {
		writeError(w, err)
		return
	}
	out := nodeList{Module: m.Path(), Nodes: make([]report.Node, 0, len(nodes))}
	for _, n := range nodes {
		rn, err := report.NodeOf(r.Context(), s.cfg.Engine, m, n)
		if err != nil {
			writeError(w, err)
			return
		}
		out.Nodes = append(out.Nodes, rn)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	m, ok := s.module(w, r)
	if !ok {
		return
	}
	stats, err := s.cfg.Engine.Stats(r.Context(), m)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	m, ok := s.module(w, r)
	if !ok {
		return
	}
	g, err := s.cfg.Engine.Graph(r.Context(), m)
	if err != nil {
		writeError(w, err)
		return
	}
	type edge struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	type node struct {
		ID   string         `json:"id"`
		Kind string         `json:"kind"`
		Meta map[string]any `json:"meta,omitempty"`
	}
	out := struct {
		Nodes []node `json:"nodes"`
		Edges []edge `json:"edges"`
	}{Nodes: []node{}, Edges: []edge{}}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, node{ID: n.ID, Kind: n.Kind.String(), Meta: n.Meta})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) library(w http.ResponseWriter, r *http.Request) {
	m, ok := s.module(w, r)
	if !ok {
		return
	}
	query, err := url.PathUnescape(chi.URLParam(r, "coord"))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad coordinate"))
		return
	}
	store, err := s.cfg.Engine.Store(r.Context(), m)
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := store.LookupLibrary(query)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeNode(w, r, m, n)
}

func (s *Server) moduleDependency(w http.ResponseWriter, r *http.Request) {
	m, ok := s.module(w, r)
	if !ok {
		return
	}
	path, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil || path == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidPath, "module dependency path required"))
		return
	}
	n, found, err := s.cfg.Engine.FindModule(r.Context(), m, path)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeError(w, errors.New(errors.ErrCodeNotFound, "%s does not depend on %s", m.Path(), path))
		return
	}
	s.writeNode(w, r, m, n)
}

func (s *Server) writeNode(w http.ResponseWriter, r *http.Request, m project.Module, n *reconcile.Node) {
	rn, err := report.NodeOf(r.Context(), s.cfg.Engine, m, n)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rn)
}

func (s *Server) invalidate(w http.ResponseWriter, r *http.Request) {
	m, ok := s.module(w, r)
	if !ok {
		return
	}
	s.cfg.Engine.Invalidate(m)
	s.cfg.Logger.Info("invalidated", "module", m.Path())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	m, ok := s.module(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	reports, err := s.cfg.Reports.List(r.Context(), report.Filter{Module: m.Path(), Limit: limit})
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "list reports"))
		return
	}
	if reports == nil {
		reports = []*report.Report{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (s *Server) saveReport(w http.ResponseWriter, r *http.Request) {
	m, ok := s.module(w, r)
	if !ok {
		return
	}
	rep, err := report.Build(r.Context(), s.cfg.Engine, m, s.cfg.Source)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.cfg.Reports.Save(r.Context(), rep); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "save report"))
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}
