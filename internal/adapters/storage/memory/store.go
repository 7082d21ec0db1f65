package memory

import (
	"sync"

	"vetcare-api/internal/domain/anamnesis"
	"vetcare-api/internal/domain/appointments"
	"vetcare-api/internal/domain/attachments"
	"vetcare-api/internal/domain/clinics"
	"vetcare-api/internal/domain/diagnoses"
	"vetcare-api/internal/domain/healthupdates"
	"vetcare-api/internal/domain/notifications"
	"vetcare-api/internal/domain/pets"
	"vetcare-api/internal/domain/quarantines"
	"vetcare-api/internal/domain/sectors"
	"vetcare-api/internal/domain/slots"
	"vetcare-api/internal/domain/treatments"
	"vetcare-api/internal/domain/users"
)

// Store junta todas las tablas para que los Delete repliquen los ON DELETE de schema.sql.
type Store struct {
	// cascade serializa los borrados que tocan más de una tabla
	cascade sync.Mutex
	// anamnesisMu hace atómico el chequeo de turno único + insert
	anamnesisMu sync.Mutex

	users         *table[users.User]
	clinics       *table[clinics.Clinic]
	sectors       *table[sectors.Sector]
	pets          *table[pets.Pet]
	healthUpdates *table[healthupdates.HealthUpdate]
	slots         *table[slots.Slot]
	appointments  *table[appointments.Appointment]
	anamnesis     *table[anamnesis.Anamnesis]
	attachments   *table[attachments.Attachment]
	diagnoses     *table[diagnoses.Diagnosis]
	treatments    *table[treatments.Treatment]
	quarantines   *table[quarantines.Quarantine]
	notifications *table[notifications.Notification]
}

func NewStore() *Store {
	return &Store{
		users:         newTable[users.User](),
		clinics:       newTable[clinics.Clinic](),
		sectors:       newTable[sectors.Sector](),
		pets:          newTable[pets.Pet](),
		healthUpdates: newTable[healthupdates.HealthUpdate](),
		slots:         newTable[slots.Slot](),
		appointments:  newTable[appointments.Appointment](),
		anamnesis:     newTable[anamnesis.Anamnesis](),
		attachments:   newTable[attachments.Attachment](),
		diagnoses:     newTable[diagnoses.Diagnosis](),
		treatments:    newTable[treatments.Treatment](),
		quarantines:   newTable[quarantines.Quarantine](),
		notifications: newTable[notifications.Notification](),
	}
}

func (s *Store) Users() users.Repository                 { return &userRepo{s: s, t: s.users} }
func (s *Store) Clinics() clinics.Repository             { return &clinicRepo{s: s, t: s.clinics} }
func (s *Store) Sectors() sectors.Repository             { return &sectorRepo{s: s, t: s.sectors} }
func (s *Store) Pets() pets.Repository                   { return &petRepo{s: s, t: s.pets} }
func (s *Store) HealthUpdates() healthupdates.Repository { return &healthUpdateRepo{t: s.healthUpdates} }
func (s *Store) Slots() slots.Repository                 { return &slotRepo{s: s, t: s.slots} }
func (s *Store) Appointments() appointments.Repository   { return &appointmentRepo{s: s, t: s.appointments} }
func (s *Store) Anamnesis() anamnesis.Repository         { return &anamnesisRepo{s: s, t: s.anamnesis} }
func (s *Store) Attachments() attachments.Repository     { return &attachmentRepo{t: s.attachments} }
func (s *Store) Diagnoses() diagnoses.Repository         { return &diagnosisRepo{t: s.diagnoses} }
func (s *Store) Treatments() treatments.Repository       { return &treatmentRepo{t: s.treatments} }
func (s *Store) Quarantines() quarantines.Repository     { return &quarantineRepo{t: s.quarantines} }
func (s *Store) Notifications() notifications.Repository { return &notificationRepo{t: s.notifications} }

// deleteUser: pets.owner_id/vet_id SET NULL, slots CASCADE.
func (s *Store) deleteUser(id string) error {
	s.cascade.Lock()
	defer s.cascade.Unlock()
	if err := s.users.remove(id); err != nil {
		return err
	}
	s.pets.updateWhere(
		func(p pets.Pet) bool { return p.OwnerID == id || p.VetID == id },
		func(p *pets.Pet) {
			if p.OwnerID == id {
				p.OwnerID = ""
			}
			if p.VetID == id {
				p.VetID = ""
			}
		},
	)
	s.dropSlots(s.slots.removeWhere(func(x slots.Slot) bool { return x.VetID == id }))
	return nil
}

// deleteClinic: users.clinic_id SET NULL.
func (s *Store) deleteClinic(id string) error {
	s.cascade.Lock()
	defer s.cascade.Unlock()
	if err := s.clinics.remove(id); err != nil {
		return err
	}
	s.users.updateWhere(
		func(u users.User) bool { return u.ClinicID != nil && *u.ClinicID == id },
		func(u *users.User) { u.ClinicID = nil },
	)
	return nil
}

// deleteSector: pets.sector_id SET NULL, quarantines CASCADE.
func (s *Store) deleteSector(id string) error {
	s.cascade.Lock()
	defer s.cascade.Unlock()
	if err := s.sectors.remove(id); err != nil {
		return err
	}
	s.pets.updateWhere(
		func(p pets.Pet) bool { return p.SectorID == id },
		func(p *pets.Pet) { p.SectorID = "" },
	)
	s.quarantines.removeWhere(func(q quarantines.Quarantine) bool { return q.SectorID == id })
	return nil
}

// deletePet: todo lo que cuelga de la mascota se va con ella.
func (s *Store) deletePet(id string) error {
	s.cascade.Lock()
	defer s.cascade.Unlock()
	if err := s.pets.remove(id); err != nil {
		return err
	}
	s.dropAppointments(s.appointments.removeWhere(func(a appointments.Appointment) bool { return a.PetID == id }))
	s.dropAnamnesis(s.anamnesis.removeWhere(func(a anamnesis.Anamnesis) bool { return a.PetID == id }))
	s.healthUpdates.removeWhere(func(h healthupdates.HealthUpdate) bool { return h.PetID == id })
	s.quarantines.removeWhere(func(q quarantines.Quarantine) bool { return q.PetID == id })
	s.treatments.removeWhere(func(t treatments.Treatment) bool { return t.PetID == id })
	return nil
}

func (s *Store) deleteSlot(id string) error {
	s.cascade.Lock()
	defer s.cascade.Unlock()
	if err := s.slots.remove(id); err != nil {
		return err
	}
	s.dropSlots([]string{id})
	return nil
}

func (s *Store) deleteAppointment(id string) error {
	s.cascade.Lock()
	defer s.cascade.Unlock()
	if err := s.appointments.remove(id); err != nil {
		return err
	}
	s.dropAppointments([]string{id})
	return nil
}

func (s *Store) deleteAnamnesis(id string) error {
	s.cascade.Lock()
	defer s.cascade.Unlock()
	if err := s.anamnesis.remove(id); err != nil {
		return err
	}
	s.dropAnamnesis([]string{id})
	return nil
}

// dropSlots: appointments.slot_id SET NULL.
func (s *Store) dropSlots(ids []string) {
	set := idSet(ids)
	s.appointments.updateWhere(
		func(a appointments.Appointment) bool { return contains(set, a.SlotID) },
		func(a *appointments.Appointment) { a.SlotID = "" },
	)
}

// dropAppointments: anamnesis.appointment_id CASCADE.
func (s *Store) dropAppointments(ids []string) {
	set := idSet(ids)
	s.dropAnamnesis(s.anamnesis.removeWhere(func(a anamnesis.Anamnesis) bool { return contains(set, a.AppointmentID) }))
}

// dropAnamnesis: adjuntos y diagnósticos CASCADE; treatments.diagnosis_id SET NULL.
func (s *Store) dropAnamnesis(ids []string) {
	set := idSet(ids)
	s.attachments.removeWhere(func(a attachments.Attachment) bool { return contains(set, a.AnamnesisID) })
	gone := idSet(s.diagnoses.removeWhere(func(d diagnoses.Diagnosis) bool { return contains(set, d.AnamnesisID) }))
	s.treatments.updateWhere(
		func(t treatments.Treatment) bool { return t.DiagnosisID != nil && contains(gone, *t.DiagnosisID) },
		func(t *treatments.Treatment) { t.DiagnosisID = nil },
	)
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func contains(set map[string]struct{}, id string) bool {
	if id == "" {
		return false
	}
	_, ok := set[id]
	return ok
}
