// Package inspect serves a read-only JSON view of a container.
//
//	GET /entries          every registration, sorted by name
//	GET /entries/{name}   one registration, or 404
//	GET /has/{name}       whether name resolves
//
// /entries takes optional kind and resolved query filters, e.g.
// /entries?kind=alias&resolved=false. Invalid filters get a 422 error bag.
//
// Nothing here calls Get, so inspecting never builds instances or locks the
// container. /has may bind a name to a matching abstract factory, exactly as
// Container.Has does.
package inspect

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/routing"
	"github.com/km-arc/go-container/framework/validation"
)

// Inspectable is the part of *container.Container the inspector reads.
type Inspectable interface {
	Has(name string) bool
	Describe(name string) (container.Description, error)
	Descriptions() []container.Description
}

// HasResult is the body of GET /has/{name}.
type HasResult struct {
	Name string `json:"name"`
	Has  bool   `json:"has"`
}

type handler struct {
	target Inspectable
}

// Handler returns a new router serving the inspector routes for target.
func Handler(target Inspectable, logger *logging.Logger) http.Handler {
	r := routing.New(logger)
	Register(r, target)
	return r
}

// Register adds the inspector routes for target to r.
func Register(r *routing.Router, target Inspectable) {
	h := &handler{target: target}
	r.Get("/entries", h.list)
	r.Get("/entries/{name}", h.describe)
	r.Get("/has/{name}", h.has)
}

var filterRules = validation.Rules{
	"kind":     "sometimes|in:" + kindList(),
	"resolved": "sometimes|boolean",
}

func kindList() string {
	kinds := []string{container.InstanceKind}
	for _, k := range container.Kinds() {
		kinds = append(kinds, k.String())
	}
	return strings.Join(kinds, ",")
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	filters := gohttp.NewRequest(r).Queries("kind", "resolved")
	if v := validation.Make(filters, filterRules); v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	all := h.target.Descriptions()
	out := make([]container.Description, 0, len(all))
	for _, d := range all {
		if kind := filters["kind"]; kind != "" && d.Kind != kind {
			continue
		}
		if raw := filters["resolved"]; raw != "" {
			if resolved, _ := strconv.ParseBool(raw); d.Resolved != resolved {
				continue
			}
		}
		out = append(out, d)
	}
	res.Success(out)
}

func (h *handler) describe(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	name, ok := nameParam(w, r)
	if !ok {
		return
	}
	d, err := h.target.Describe(name)
	switch {
	case container.IsNotFound(err):
		res.NotFound("No entry named " + name + ".")
	case err != nil:
		logging.LoggerFromContext(r.Context()).Error(err, "error describing entry", "name", name)
		res.ServerError()
	default:
		res.Success(d)
	}
}

func (h *handler) has(w http.ResponseWriter, r *http.Request) {
	name, ok := nameParam(w, r)
	if !ok {
		return
	}
	gohttp.NewResponse(w).Success(HasResult{Name: name, Has: h.target.Has(name)})
}

func nameParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, err := gohttp.NewRequest(r).RouteParam("name")
	if err != nil {
		gohttp.NewResponse(w).Error(http.StatusBadRequest, "Malformed name.")
		return "", false
	}
	return name, true
}
