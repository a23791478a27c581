package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/gestion-contratistas/portal/internal/server/models"
)

// Dates in the generated documents use the Colombian convention.
const fechaLayout = "02/01/2006"

var informeTmpl = template.Must(template.New("informe").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="UTF-8">
  <title>Informe Solicitud {{.Solicitud.ID}}</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .header { text-align: center; border-bottom: 2px solid #011C3D; padding-bottom: 20px; }
    .title { color: #011C3D; font-size: 24px; font-weight: bold; }
    table { width: 100%; border-collapse: collapse; margin-top: 20px; }
    th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
    th { background-color: #011C3D; color: white; }
    .footer { margin-top: 50px; text-align: center; font-size: 12px; color: #666; }
  </style>
</head>
<body>
  <div class="header">
    <p class="title">Informe de Solicitud No. {{.Solicitud.ID}}</p>
  </div>
  <p><strong>Empresa:</strong> {{.Solicitud.Empresa}}</p>
  <p><strong>Contratista:</strong> {{.ContractorName}}</p>
  <p><strong>Interventor:</strong> {{.InterventorName}}</p>
  <p><strong>Inicio de obra:</strong> {{.InicioObra}}</p>
  <p><strong>Fin de obra:</strong> {{.FinObra}}</p>
  <table>
    <tr><th>Cédula</th><th>Nombre</th></tr>
    {{range .Colaboradores}}<tr><td>{{.Cedula}}</td><td>{{.Nombre}}</td></tr>
    {{end}}
  </table>
  <div class="footer">
    <p>Documento generado electrónicamente el {{.Generado}}</p>
  </div>
</body>
</html>
`))

var policyTmpl = template.Must(template.New("politica").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="UTF-8">
  <title>Constancia de Aceptación - Política de Tratamiento de Datos</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .title { color: #011C3D; font-size: 24px; font-weight: bold; text-align: center; }
    .info-box { background-color: #f9f9f9; border: 1px solid #ddd; padding: 20px; }
    .footer { margin-top: 50px; text-align: center; font-size: 12px; color: #666; }
  </style>
</head>
<body>
  <p class="title">Constancia de Aceptación de la Política de Tratamiento de Datos Personales</p>
  <div class="info-box">
    <p><strong>Empresa:</strong> {{.Empresa}}</p>
    <p><strong>Usuario:</strong> {{.Username}}</p>
    <p><strong>Correo:</strong> {{.Email}}</p>
    <p><strong>Dirección IP:</strong> {{.IP}}</p>
    <p><strong>Fecha de aceptación:</strong> {{.Fecha}}</p>
  </div>
  <div class="footer">
    <p>Documento generado electrónicamente el {{.Fecha}}</p>
  </div>
</body>
</html>
`))

func renderInformeHTML(solicitud *models.Solicitud, colaboradores []*models.Colaborador,
	contractorName, interventorName string) ([]byte, error) {

	data := struct {
		Solicitud       *models.Solicitud
		Colaboradores   []*models.Colaborador
		ContractorName  string
		InterventorName string
		InicioObra      string
		FinObra         string
		Generado        string
	}{
		Solicitud:       solicitud,
		Colaboradores:   colaboradores,
		ContractorName:  contractorName,
		InterventorName: interventorName,
		InicioObra:      solicitud.InicioObra.Format(fechaLayout),
		FinObra:         solicitud.FinObra.Format(fechaLayout),
		Generado:        time.Now().Format("02/01/2006 15:04:05"),
	}

	var buf bytes.Buffer
	if err := informeTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPolicyAcceptance(user *models.User, clientIP string, at time.Time) ([]byte, error) {
	data := struct {
		Empresa  string
		Username string
		Email    string
		IP       string
		Fecha    string
	}{
		Empresa:  user.Empresa,
		Username: user.Username,
		Email:    user.Email,
		IP:       clientIP,
		Fecha:    at.Format("02/01/2006 15:04:05"),
	}

	var buf bytes.Buffer
	if err := policyTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildBundle renders the report and wraps it into the ZIP that gets stored.
func buildBundle(solicitud *models.Solicitud, colaboradores []*models.Colaborador,
	contractorName, interventorName string) ([]byte, error) {

	html, err := renderInformeHTML(solicitud, colaboradores, contractorName, interventorName)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create(fmt.Sprintf("Informe_Solicitud_%d.html", solicitud.ID))
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(html); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
