// Package http provides request input helpers and JSON response helpers.
//
//	req := gohttp.NewRequest(r)
//	kind := req.Query("kind", "factory")
//	name, err := req.RouteParam("name")
//
//	res := gohttp.NewResponse(w)
//	res.Success(descriptions)          // 200 {"data": ...}
//	res.NotFound("no entry named foo") // 404 {"message": ...}
//	res.ValidationError(v.Errors())    // 422 {"errors": {...}}
package http
