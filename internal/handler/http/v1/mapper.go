package v1

import "github.com/thikaresq/resqnet/internal/models"

// ReportToIncidentModel преобразует DTO обращения в доменную модель
func ReportToIncidentModel(dto ReportIncidentRequest) *models.Incident {
	return &models.Incident{
		Description:   dto.Description,
		Latitude:      dto.Latitude,
		Longitude:     dto.Longitude,
		AddressText:   dto.AddressText,
		ReporterPhone: dto.ReporterPhone,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:                  model.ID,
		Description:         model.Description,
		Latitude:            model.Latitude,
		Longitude:           model.Longitude,
		AddressText:         model.AddressText,
		ReporterPhone:       model.ReporterPhone,
		SeverityScore:       model.SeverityScore,
		Status:              string(model.Status),
		CreatedAt:           model.CreatedAt,
		AssignedResponderID: model.AssignedResponderID,
		AssignedAt:          model.AssignedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(incidents []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(incidents))
	for i, model := range incidents {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// DTOToResponderModel преобразует DTO создания/обновления бригады в доменную модель.
// Используем одну функцию, так как поля совпадают.
func DTOToResponderModel(dto any) *models.Responder {
	switch v := dto.(type) {
	case CreateResponderRequest:
		return &models.Responder{
			VehicleNumber: v.VehicleNumber,
			CurrentStatus: models.ResponderStatus(v.CurrentStatus),
			Latitude:      v.Latitude,
			Longitude:     v.Longitude,
			PhoneNumber:   v.PhoneNumber,
		}
	case UpdateResponderRequest:
		return &models.Responder{
			VehicleNumber: v.VehicleNumber,
			CurrentStatus: models.ResponderStatus(v.CurrentStatus),
			Latitude:      v.Latitude,
			Longitude:     v.Longitude,
			PhoneNumber:   v.PhoneNumber,
		}
	}
	return nil
}

// ModelToResponderResponse преобразует доменную модель в DTO для ответа
func ModelToResponderResponse(model *models.Responder) *ResponderResponse {
	return &ResponderResponse{
		ID:            model.ID,
		VehicleNumber: model.VehicleNumber,
		CurrentStatus: string(model.CurrentStatus),
		Latitude:      model.Latitude,
		Longitude:     model.Longitude,
		PhoneNumber:   model.PhoneNumber,
	}
}

// ModelsToResponderResponses преобразует слайс моделей в слайс DTO
func ModelsToResponderResponses(responders []*models.Responder) []*ResponderResponse {
	responses := make([]*ResponderResponse, len(responders))
	for i, model := range responders {
		responses[i] = ModelToResponderResponse(model)
	}
	return responses
}

// DTOToHospitalModel преобразует DTO больницы в доменную модель
func DTOToHospitalModel(dto CreateHospitalRequest) *models.Hospital {
	return &models.Hospital{
		Name:          dto.Name,
		Location:      dto.Location,
		AvailableBeds: dto.AvailableBeds,
		ICUCapacity:   dto.ICUCapacity,
		ContactNumber: dto.ContactNumber,
	}
}

// ModelToHospitalResponse преобразует доменную модель в DTO для ответа
func ModelToHospitalResponse(model *models.Hospital) *HospitalResponse {
	return &HospitalResponse{
		ID:            model.ID,
		Name:          model.Name,
		Location:      model.Location,
		AvailableBeds: model.AvailableBeds,
		ICUCapacity:   model.ICUCapacity,
		ContactNumber: model.ContactNumber,
		CreatedAt:     model.CreatedAt,
	}
}

// ModelsToHospitalResponses преобразует слайс моделей в слайс DTO
func ModelsToHospitalResponses(hospitals []*models.Hospital) []*HospitalResponse {
	responses := make([]*HospitalResponse, len(hospitals))
	for i, model := range hospitals {
		responses[i] = ModelToHospitalResponse(model)
	}
	return responses
}
