package handlers

import "github.com/gin-gonic/gin"

// Handlers groups every HTTP handler of the API
type Handlers struct {
	Staff     *StaffHandler
	Entries   *EntryHandler
	Payroll   *PayrollHandler
	Income    *IncomeHandler
	Expenses  *ExpenseHandler
	GiftCards *GiftCardHandler
	System    *SystemHandler
}

// Guards are the middlewares placed in front of groups of routes. A nil guard
// leaves its routes open.
type Guards struct {
	Store    gin.HandlerFunc
	Payroll  gin.HandlerFunc
	Expenses gin.HandlerFunc
}

func chain(guards ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards))
	for _, g := range guards {
		if g != nil {
			out = append(out, g)
		}
	}
	return out
}

// RegisterRoutes mounts /health and the /api routes on router
func RegisterRoutes(router *gin.Engine, h Handlers, guards Guards) {
	router.GET("/health", h.System.Health)

	api := router.Group("/api", chain(guards.Store)...)
	{
		api.GET("/network-info", h.System.NetworkInfo)

		staff := api.Group("/staff")
		{
			staff.GET("", h.Staff.List)
			staff.POST("", h.Staff.Create)
			staff.PUT("/:id", h.Staff.Update)
			staff.DELETE("/:id", h.Staff.Delete)
		}

		entries := api.Group("/entries")
		{
			entries.GET("", h.Entries.List)
			entries.POST("", h.Entries.Create)
			entries.PUT("/:id", h.Entries.Update)
			entries.DELETE("/:id", h.Entries.Delete)
		}

		api.GET("/transactions", h.Entries.Transactions)
		api.GET("/transactions/summary", h.Entries.TransactionSummary)
		api.GET("/statistics", h.Entries.Statistics)

		api.GET("/work-schedule", h.Payroll.WorkSchedule)
		api.POST("/work-schedule", h.Payroll.SetWorking)

		api.POST("/payroll/check-password", h.Payroll.CheckPassword)
		api.POST("/payroll/change-password", h.Payroll.ChangePassword)

		payroll := api.Group("", chain(guards.Payroll)...)
		{
			payroll.GET("/rates", h.Payroll.ListRates)
			payroll.POST("/rates", h.Payroll.UpsertRate)
			payroll.GET("/shifts", h.Payroll.ListShifts)
			payroll.POST("/shifts", h.Payroll.UpsertShift)
			payroll.DELETE("/shifts", h.Payroll.DeleteShift)
			payroll.GET("/settings/rent", h.Income.GetRent)
			payroll.POST("/settings/rent", h.Income.UpdateRent)
			payroll.GET("/income/summary", h.Income.Summary)
		}

		api.POST("/expenses/check-pin", h.Expenses.CheckPIN)
		api.POST("/expenses/change-pin", h.Expenses.ChangePIN)

		expenses := api.Group("/expenses", chain(guards.Expenses)...)
		{
			expenses.GET("", h.Expenses.List)
			expenses.POST("", h.Expenses.Create)
			expenses.GET("/summary", h.Expenses.Summary)
			expenses.PUT("/:id", h.Expenses.Update)
			expenses.DELETE("/:id", h.Expenses.Delete)
		}

		giftCards := api.Group("/gift-cards")
		{
			giftCards.GET("", h.GiftCards.List)
			giftCards.POST("", h.GiftCards.Create)
			giftCards.GET("/search/:query", h.GiftCards.Search)
			giftCards.GET("/:id", h.GiftCards.Get)
			giftCards.PUT("/:id", h.GiftCards.Update)
			giftCards.POST("/:id/use", h.GiftCards.Use)
			giftCards.DELETE("/:id", h.GiftCards.Delete)
		}
	}
}
