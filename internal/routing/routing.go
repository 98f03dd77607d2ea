package routing

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"

	"gochat/pkg/avatar"
	"gochat/pkg/handlers"
	"gochat/pkg/hub"
	"gochat/pkg/message"
	"gochat/pkg/middleware"
	"gochat/pkg/token"
	"gochat/pkg/user"
)

const (
	staticPath = "./static"
	uploadPath = staticPath + "/uploads"
)

func InitRoutes(r *mux.Router, db *sql.DB, mongoDB *mongo.Database, wsHub *hub.Hub, clientOrigin string, logger *slog.Logger) {

	codec := token.NewCodec(os.Getenv("JWT_SECRET"))

	userRepo := user.NewMySQLRepo(db)
	avatars := avatar.NewDiskStore(uploadPath, "/static/uploads")

	userService := user.NewService(userRepo, avatars)
	authHandler := handlers.NewAuthHandler(userService, codec, logger)

	msgService := message.NewService(message.NewMongoRepo(mongoDB), userRepo, wsHub, avatars)
	msgHandler := handlers.NewMessageHandler(msgService, logger)

	r.Use(middleware.CORS(clientOrigin))
	r.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	/* realtime channel: identity is trusted at connect time, so the session
	guard does not wrap this route */
	r.HandleFunc("/ws", wsHub.ServeWS)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Panic)
	api.Use(middleware.Auth(codec, userRepo))

	authRouter := api.PathPrefix("/auth").Subrouter()
	msgRouter := api.PathPrefix("/messages").Subrouter()

	api.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Server is live"))
	}).Methods("GET")

	/* auth routers */
	authRouter.HandleFunc("/signup", authHandler.Signup).Methods("POST").Name("signup")
	authRouter.HandleFunc("/login", authHandler.Login).Methods("POST").Name("login")
	authRouter.HandleFunc("/logout", authHandler.Logout).Methods("POST").Name("logout")
	authRouter.HandleFunc("/check", authHandler.Check).Methods("GET")
	authRouter.HandleFunc("/update-profile", authHandler.UpdateProfile).Methods("PUT")

	/* message routers */
	msgRouter.HandleFunc("/users", msgHandler.GetSidebarUsers).Methods("GET")
	msgRouter.HandleFunc("/mark/{message_id:[a-zA-Z0-9]+}", msgHandler.MarkSeen).Methods("PUT")
	msgRouter.HandleFunc("/send/{user_id:[a-zA-Z0-9]+}", msgHandler.Send).Methods("POST")
	msgRouter.HandleFunc("/{user_id:[a-zA-Z0-9]+}", msgHandler.GetHistory).Methods("GET")
}

func ServeStaticFiles(r *mux.Router) {
	fs := http.FileServer(http.Dir(staticPath))
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fs))
}

func StartServer(r *mux.Router, port string) {
	fmt.Println("\n\033[32m", "The server is running on http://localhost:"+port, "\033[0m")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal("Server failed:", err)
	}
}
