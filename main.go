package main

import (
	"log"
	"os"

	"new-rent-server/routes"
	"new-rent-server/storage"
	"new-rent-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()
	storage.InitializeCloudinary()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the web dashboard (http://localhost:3000)
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	resetTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")))
	resetTokenVerifier.WithDefaultBlocklist()
	resetTokenVerifierMiddleware := resetTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/apple", routes.AppleLoginOrSignUp)
		user.Post("/forgotpassword", routes.ForgotPassword)
		user.Post("/resetpassword", resetTokenVerifierMiddleware, routes.ResetPassword)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/me", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUser)
		user.Patch("/profile", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateUserProfile)
		user.Get("/wishlist", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserWishlist)
		user.Patch("/wishlist", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.AlterUserWishlist)
	}

	kyc := app.Party("/api/kyc", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		kyc.Get("/state", routes.GetKYCState)
		kyc.Post("/document", routes.SubmitKYCDocument)
		kyc.Post("/video", routes.SubmitKYCVideo)
		kyc.Post("/phone/send", routes.SendPhoneCode)
		kyc.Post("/phone/verify", routes.VerifyPhoneCode)
	}

	product := app.Party("/api/products")
	{
		product.Get("/", routes.ListProducts)
		product.Get("/{id:uint}", routes.GetProduct)
		product.Get("/{id:uint}/reviews", routes.ListProductReviews)
		product.Post("/{id:uint}/reviews", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateReview)
		product.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateProduct)
		product.Patch("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateProduct)
		product.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DeleteProduct)
		product.Get("/mine", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetHostProducts)
	}

	rental := app.Party("/api/rentals", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		rental.Post("/", routes.CreateRental)
		rental.Get("/", routes.GetUserRentals)
		rental.Patch("/{id:uint}/status", routes.UpdateRentalStatus)
	}

	category := app.Party("/api/categories")
	{
		category.Get("/", routes.GetCategories)
	}

	upload := app.Party("/api/upload", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		upload.Post("/image", routes.UploadImage)
		upload.Post("/video", routes.UploadVideo)
		upload.Post("/document", routes.UploadDocument)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Get("/users/{id:uint}", routes.AdminGetUser)
		admin.Patch("/users/{id:uint}/role", routes.AdminChangeUserRole)
		admin.Post("/users/{id:uint}/kyc", routes.AdminSetUserKYCStatus)
		admin.Get("/kyc/documents", routes.AdminListPendingKYC)
		admin.Post("/kyc/documents/{id:uint}/approve", routes.AdminApproveKYCDocument)
		admin.Post("/kyc/documents/{id:uint}/reject", routes.AdminRejectKYCDocument)
		admin.Get("/products", routes.AdminListProducts)
		admin.Delete("/products/{id:uint}", routes.AdminDeleteProduct)
		admin.Get("/rentals", routes.AdminListRentals)
		admin.Get("/stats", routes.AdminStats)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Fatal(app.Listen(":" + port))
}
