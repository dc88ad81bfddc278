package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/judyrop/storefront/auth"
	h "github.com/judyrop/storefront/handlers"
	"github.com/judyrop/storefront/middleware"
	"github.com/judyrop/storefront/notify"
	"github.com/judyrop/storefront/payment"
	"github.com/judyrop/storefront/services"
)

// Deps are the collaborators SetupRouter cannot build from the database.
type Deps struct {
	Tokens *auth.TokenIssuer
	// Extra authenticators are tried after the locally issued tokens.
	Extra       []auth.Authenticator
	Gateway     payment.Gateway
	Notifier    notify.Notifier
	CORSOrigins []string
}

type gormPinger struct{ db *gorm.DB }

func (p gormPinger) PingContext(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func SetupRouter(db *gorm.DB, deps Deps) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID(), middleware.CORS(deps.CORSOrigins), middleware.ErrorHandler())

	users := services.NewUserService(db, deps.Tokens)
	categories := services.NewCategoryService(db)
	products := services.NewProductService(db)
	carts := services.NewCartService(db)
	bookmarks := services.NewBookmarkService(db)
	orders := services.NewOrderService(db, deps.Gateway, deps.Notifier)
	reviews := services.NewReviewService(db)
	inquiries := services.NewInquiryService(db)

	authn := append(auth.Chain{deps.Tokens}, deps.Extra...)
	requireAuth := middleware.RequireAuth(authn)

	r.GET("/health", h.Health(gormPinger{db}))

	authGroup := r.Group("/auth")
	authGroup.POST("/register", h.Register(users))
	authGroup.POST("/login", h.Login(users))

	r.GET("/categories", h.CategoryTree(categories))
	r.GET("/categories/:path", h.CategoryByPath(categories))
	r.GET("/products", h.ListProducts(products))
	r.GET("/products/:id", h.GetProduct(products))
	r.GET("/reviews", h.ProductReviews(reviews))

	me := r.Group("/users", requireAuth)
	me.GET("/me", h.Me(users))
	me.PATCH("/me", h.UpdateProfile(users))
	me.PUT("/me/password", h.ChangePassword(users))

	cart := r.Group("/cart", requireAuth)
	cart.GET("", h.GetCart(carts))
	cart.POST("/items", h.AddCartItem(carts))
	cart.PATCH("/items/:itemId", h.UpdateCartItem(carts))
	cart.DELETE("/items/:itemId", h.DeleteCartItem(carts))
	cart.DELETE("", h.ClearCart(carts))

	marks := r.Group("/bookmarks", requireAuth)
	marks.GET("", h.ListBookmarks(bookmarks))
	marks.POST("/:productId", h.AddBookmark(bookmarks))
	marks.DELETE("/:productId", h.RemoveBookmark(bookmarks))

	order := r.Group("/orders", requireAuth)
	order.POST("", h.CreateOrder(orders))
	order.POST("/confirm", h.ConfirmOrder(orders))
	order.GET("", h.ListMyOrders(orders))
	order.GET("/:id", h.GetMyOrder(orders))
	order.POST("/:id/cancel", h.CancelOrder(orders))
	order.POST("/:id/return", h.RequestReturn(orders))

	review := r.Group("/reviews", requireAuth)
	review.GET("/me", h.MyReviews(reviews))
	review.POST("", h.CreateReview(reviews))
	review.PATCH("/:id", h.UpdateReview(reviews))
	review.DELETE("/:id", h.DeleteReview(reviews))

	inquiry := r.Group("/inquiries", requireAuth)
	inquiry.GET("", h.MyInquiries(inquiries))
	inquiry.POST("", h.CreateInquiry(inquiries))
	inquiry.GET("/:id", h.GetMyInquiry(inquiries))
	inquiry.PATCH("/:id", h.UpdateInquiry(inquiries))
	inquiry.DELETE("/:id", h.DeleteInquiry(inquiries))

	setupAdminRoutes(r.Group("/admin", requireAuth, middleware.RequireAdmin()), db, deps)
	return r
}

func setupAdminRoutes(admin *gin.RouterGroup, db *gorm.DB, deps Deps) {
	categories := services.NewAdminCategoryService(db)
	products := services.NewAdminProductService(db)
	orders := services.NewAdminOrderService(db, deps.Gateway)
	reviews := services.NewAdminReviewService(db)
	inquiries := services.NewAdminInquiryService(db)
	users := services.NewAdminUserService(db)

	admin.POST("/categories", h.CreateCategory(categories))
	admin.PATCH("/categories/:id", h.UpdateCategory(categories))
	admin.DELETE("/categories/:id", h.DeleteCategory(categories))
	admin.GET("/categories/:id/stats", h.CategoryStats(categories))

	admin.POST("/products", h.CreateProduct(products))
	admin.PATCH("/products/:id", h.UpdateProduct(products))
	admin.DELETE("/products/:id", h.DeleteProduct(products))

	admin.GET("/orders", h.AdminListOrders(orders))
	admin.GET("/orders/export", h.ExportOrders(orders))
	admin.GET("/orders/:id", h.AdminGetOrder(orders))
	admin.PATCH("/orders/:id/status", h.AdminUpdateOrderStatus(orders))

	admin.GET("/reviews", h.AdminListReviews(reviews))
	admin.DELETE("/reviews/:id", h.AdminDeleteReview(reviews))

	admin.GET("/inquiries", h.AdminListInquiries(inquiries))
	admin.GET("/inquiries/:id", h.AdminGetInquiry(inquiries))
	admin.POST("/inquiries/:id/answer", h.AnswerInquiry(inquiries))
	admin.DELETE("/inquiries/:id", h.AdminDeleteInquiry(inquiries))

	admin.GET("/users", h.AdminListUsers(users))
	admin.POST("/users", h.AdminCreateUser(users))
	admin.GET("/users/:id", h.AdminGetUser(users))
	admin.PATCH("/users/:id", h.AdminUpdateUser(users))
	admin.DELETE("/users/:id", h.AdminDeleteUser(users))
}
