package routes

import (
	"clinic-connect/authentication"
	"clinic-connect/controllers"

	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	r := gin.Default()

	// Public routes
	r.POST("/users/login", controllers.PatientLogin)
	r.POST("/users/signup", controllers.PatientSignup)
	r.POST("/users/verify", controllers.UserOtpVerify)
	r.POST("/doctor/signup", controllers.Signup)
	r.POST("/doctor/verify", controllers.VerifyOTP)
	r.POST("/doctor/login", controllers.DoctorLogin)
	r.POST("/admin/login", controllers.AdminLogin)

	// Patient routes
	user := r.Group("/user")
	user.Use(authentication.PatientAuthMiddleware())
	{
		user.GET("/logout", controllers.PatientLogout)
		user.GET("/doctors/:doctor_id/available-slots", controllers.GetAvailableTimeSlots)
		user.GET("/doctor/:specialization", controllers.GetDoctorBySpeciality)
		user.POST("/book/appointment", controllers.BookAppointment)
		user.POST("/cancel/appointment/:id", controllers.CancelAppointment)
		user.GET("/appointment/history", controllers.GetAppointmentHistory)
		user.GET("/prescriptions", controllers.GetMyPrescriptions)
		user.GET("/wallet", controllers.Wallet)
		user.POST("/pay/offline", controllers.PayOffline)
		user.POST("/pay/wallet", controllers.PayFromWallet)
		user.GET("/pay/online", controllers.MakePaymentOnline)
		user.GET("/payment/success", controllers.PaymentSuccess)
	}

	// Doctor routes
	doctors := r.Group("/doctor")
	doctors.Use(authentication.DoctorAuthMiddleware())
	{
		doctors.GET("/logout", controllers.DoctorLogout)
		doctors.POST("/schedule", controllers.SaveSchedule)
		doctors.PATCH("/schedule/:id", controllers.UpdateSchedule)
		doctors.POST("/schedule/:id/remove", controllers.RemoveSchedule)
		doctors.GET("/schedules", controllers.ViewSchedules)
		doctors.POST("/approve/appointment/:id", controllers.ApproveAppointment)
		doctors.POST("/decline/appointment/:id", controllers.DeclineAppointment)
		doctors.POST("/complete/appointment/:id", controllers.CompleteAppointment)
		doctors.POST("/reschedule/appointment/:id", controllers.RescheduleAppointment)
		doctors.POST("/cancel/appointment/:id", controllers.CancelAppointment)
		doctors.POST("/add/prescription", controllers.AddPrescription)
		doctors.GET("/appointments/date", controllers.GetDoctorAppointmentsByDate)
		doctors.GET("/appointment/history", controllers.GetAppHistory)
	}

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(authentication.AdminAuthMiddleware())
	{
		admin.POST("/logout", controllers.AdminLogout)
		admin.POST("/verify/doctor/:id", controllers.UpdateDoctor)
		admin.GET("/view/doctors", controllers.ViewDoctors)
		admin.GET("/view/doctor/:id", controllers.GetDoctorByID)
		admin.GET("/view/doctors/:specialization", controllers.GetDoctorBySpeciality)
		admin.GET("/view/verified/doctors", controllers.ViewVerifiedDoctors)
		admin.GET("/view/notVerified/doctors", controllers.ViewNotVerifiedDoctors)
		admin.GET("/view/verified/approved/doctors", controllers.ViewVerifiedApprovedDoctors)
		admin.GET("/view/verified/notApproved/doctors", controllers.ViewVerifiedNotApprovedDoctors)
		admin.POST("/schedule", controllers.SaveSchedule)
		admin.PATCH("/schedule/:id", controllers.UpdateSchedule)
		admin.POST("/schedule/:id/remove", controllers.RemoveSchedule)
		admin.GET("/schedules", controllers.ViewSchedules)
		admin.POST("/approve/appointment/:id", controllers.ApproveAppointment)
		admin.POST("/decline/appointment/:id", controllers.DeclineAppointment)
		admin.POST("/complete/appointment/:id", controllers.CompleteAppointment)
		admin.POST("/reschedule/appointment/:id", controllers.RescheduleAppointment)
		admin.GET("/view/payments", controllers.GetPayments)
		admin.GET("/total/appointments", controllers.GetBookingStatusCounts)
		admin.GET("/doctor-wise/bookings", controllers.GetDoctorWiseBookings)
		admin.GET("/department-wise/bookings", controllers.GetDepartmentWiseBookings)
		admin.GET("/total/revenue", controllers.GetTotalRevenue)
		admin.GET("/revenue/startdate", controllers.GetSpecificRevenue)
	}

	return r
}
