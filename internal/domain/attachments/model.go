package attachments

import "time"

// Attachment es un archivo de diagnóstico (placa, análisis, foto) colgado de una anamnesis.
type Attachment struct {
	ID             string
	AnamnesisID    string
	FileName       string
	ContentType    string
	ObjectName     string // clave dentro del bucket attachment
	FileURL        string
	Recommendation string
	UploadedAt     time.Time
}
