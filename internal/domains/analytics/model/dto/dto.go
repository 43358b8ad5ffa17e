package dto

import (
	"math"
	"time"

	"hotel/internal/domains/analytics/aggregate"
	bookingModel "hotel/internal/domains/booking/model"
	bookingDto "hotel/internal/domains/booking/model/dto"
	"hotel/shared/constant"
	"hotel/shared/timezone"
)

const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

type ReportResponse struct {
	TimeRange   string `json:"time_range"`
	Since       string `json:"since"`
	GeneratedAt string `json:"generated_at"`
	aggregate.Report
}

func (r *ReportResponse) FromReport(report aggregate.Report, timeRange aggregate.Range, since, generatedAt time.Time) {
	r.Report = report
	r.TimeRange = string(timeRange)
	r.Since = timezone.Format(since, constant.DateOnlyFormat)
	r.GeneratedAt = timezone.Format(generatedAt, constant.DateFormat)
}

type DashboardResponse struct {
	TotalRooms     int                          `json:"total_rooms"`
	TotalBookings  int                          `json:"total_bookings"`
	TotalGuests    int                          `json:"total_guests"`
	TotalRevenue   float64                      `json:"total_revenue"`
	OccupancyRate  float64                      `json:"occupancy_rate"`
	AverageStay    float64                      `json:"average_stay"`
	RecentBookings []bookingDto.BookingResponse `json:"recent_bookings"`
}

func (r *DashboardResponse) FromSummary(summary bookingModel.Summary, totalRooms, totalGuests, occupancyDays int) {
	r.TotalRooms = totalRooms
	r.TotalGuests = totalGuests
	r.TotalBookings = summary.TotalBookings
	r.TotalRevenue = summary.TotalRevenue
	r.OccupancyRate = aggregate.DashboardOccupancy(summary.TotalBookings, totalRooms, occupancyDays)
	r.AverageStay = roundTenth(summary.AverageStay)
}

func (r *DashboardResponse) WithRecent(bookings []bookingModel.Booking) {
	r.RecentBookings = make([]bookingDto.BookingResponse, len(bookings))

	for i, booking := range bookings {
		r.RecentBookings[i].FromModel(booking)
	}
}

// ExportFile is a rendered report ready to be sent as an attachment.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

func ExportName(timeRange aggregate.Range, format string, at time.Time) string {
	return "hotel-report-" + string(timeRange) + "-" + timezone.Format(at, constant.DateOnlyFormat) + "." + format
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
