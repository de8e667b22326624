// httpcontroller/routes.go
package httpcontroller

// initRoutes initializes the routes for the server.
func (s *Server) initRoutes() {
	h := s.Handlers

	// Public listing and viewing
	s.Echo.GET("/", h.WithErrorHandling(h.ListNotes))
	s.Echo.GET("/note/:id", h.WithErrorHandling(h.GetNote))

	// Reference data
	s.Echo.GET("/species/all", h.WithErrorHandling(h.ListSpecies))
	s.Echo.GET("/behaviors", h.WithErrorHandling(h.ListBehaviors))

	// Account routes
	s.Echo.POST("/signup", h.WithErrorHandling(h.Signup))
	s.Echo.GET("/login", h.WithErrorHandling(h.LoginStatus))
	s.Echo.POST("/login", h.WithErrorHandling(h.Login))
	s.Echo.DELETE("/logout", h.WithErrorHandling(h.Logout))

	// Note mutation, gated on a session identity
	s.Echo.GET("/note", h.WithErrorHandling(h.NewNote), h.RequireAuth)
	s.Echo.POST("/note", h.WithErrorHandling(h.CreateNote), h.RequireAuth)
	s.Echo.GET("/note/:id/edit", h.WithErrorHandling(h.EditNote), h.RequireAuth)
	s.Echo.PUT("/note/:id", h.WithErrorHandling(h.UpdateNote), h.RequireAuth)
	s.Echo.DELETE("/note/:id", h.WithErrorHandling(h.DeleteNote), h.RequireAuth)
	s.Echo.POST("/note/:id/comments", h.WithErrorHandling(h.AddComment), h.RequireAuth)

	// Per-user note list, only reachable by that user
	s.Echo.GET("/users/:id", h.WithErrorHandling(h.ListUserNotes), h.RequireAuth)
}
