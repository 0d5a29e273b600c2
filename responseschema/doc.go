// Package responseschema wraps every response of a huma API in an
// application-defined envelope.
//
// Applications describe their envelope families by implementing [Schema],
// pick which family applies to a route through an [Interceptor] (the default
// is [SchemaRoute]) and register operations with [Register]. The handler keeps
// returning its plain payload type; the interceptor documents the bound
// envelope in OpenAPI and builds an envelope instance for every response.
//
// Error responses take the symmetric path. [WrapErrorResponses] and
// [WrapAppResponses] return an [App] that converts every error produced by
// huma (validation failures, [huma.StatusError] values returned by handlers,
// errors written by middleware) and every [HTTPError] into the configured
// error envelope. [ErrorHandlers] covers the requests that never reach a huma
// operation: unmatched routes, disallowed methods and panics.
//
// Typical wiring with chi:
//
//	route, err := responseschema.NewSchemaRoute(Envelope{}, ErrorEnvelope{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	errs := responseschema.NewErrorHandlers(route.ErrorSchema())
//	router.NotFound(errs.NotFound())
//	router.MethodNotAllowed(errs.MethodNotAllowed())
//	router.Use(errs.Recoverer())
//
//	app := responseschema.WrapAppResponses(humachi.New(router, config), route)
//	responseschema.Register(app, huma.Operation{
//		OperationID: "get-item",
//		Method:      http.MethodGet,
//		Path:        "/items/{id}",
//	}, getItem)
package responseschema
