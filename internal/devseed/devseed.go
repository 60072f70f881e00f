// Package devseed loads the sample school content into empty stores.
package devseed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/sman1jakarta/portal/internal/core"
	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	"github.com/sman1jakarta/portal/internal/domain/model"
)

// DefaultUserPassword is the password every seeded console account gets.
const DefaultUserPassword = "sman1jakarta"

// Repos bundles the stores that receive sample data.
type Repos struct {
	News     core.NewsRepository
	Gallery  core.GalleryRepository
	Contacts core.ContactRepository
	Users    core.UserRepository
}

// Result counts what was inserted.
type Result struct {
	News, Gallery, Contacts, Users int
}

// Run seeds every store that is still empty. Stores that already hold rows are left alone.
func Run(ctx context.Context, repos Repos, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res Result
	var errs []error

	n, err := seedNews(ctx, repos.News)
	res.News = n
	errs = append(errs, err)

	n, err = seedGallery(ctx, repos.Gallery)
	res.Gallery = n
	errs = append(errs, err)

	n, err = seedContacts(ctx, repos.Contacts)
	res.Contacts = n
	errs = append(errs, err)

	n, err = seedUsers(ctx, repos.Users)
	res.Users = n
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return res, err
	}
	logger.InfoContext(ctx, "sample data seeded",
		"news", res.News, "gallery", res.Gallery, "contacts", res.Contacts, "users", res.Users)
	return res, nil
}

type newsSeed struct {
	input model.NewsInput
	views int
}

// News returns the sample articles, oldest first.
func News() []model.NewsInput {
	out := make([]model.NewsInput, 0, len(newsSeeds))
	for _, s := range newsSeeds {
		out = append(out, s.input)
	}
	return out
}

var newsSeeds = []newsSeed{
	{views: 178, input: model.NewsInput{
		Title:    "Peningkatan Fasilitas Laboratorium Komputer dengan Teknologi Terbaru",
		Excerpt:  "Sekolah melakukan upgrade fasilitas laboratorium komputer dengan perangkat terbaru untuk mendukung pembelajaran digital.",
		Content:  "Dalam upaya meningkatkan kualitas pembelajaran, SMA Negeri 1 Jakarta telah melakukan upgrade fasilitas laboratorium komputer dengan perangkat terbaru. Investasi ini diharapkan dapat mendukung pembelajaran digital yang semakin penting di era modern.",
		Category: model.NewsCategoryFasilitas,
		Author:   "Kepala Lab Komputer",
	}},
	{views: 203, input: model.NewsInput{
		Title:    "Kunjungan Industri ke Perusahaan Teknologi Terkemuka",
		Excerpt:  "Siswa kelas XII IPA berkesempatan mengunjungi perusahaan teknologi untuk melihat langsung penerapan ilmu di dunia kerja.",
		Content:  "Sebagai bagian dari program pembelajaran kontekstual, siswa kelas XII IPA melakukan kunjungan industri ke beberapa perusahaan teknologi terkemuka di Jakarta. Kegiatan ini bertujuan memberikan gambaran nyata tentang penerapan ilmu pengetahuan di dunia kerja.",
		Category: model.NewsCategoryKegiatan,
		Author:   "Guru Pembimbing",
	}},
	{views: 156, input: model.NewsInput{
		Title:    "Program Beasiswa Prestasi untuk Siswa Berprestasi Tahun 2025",
		Excerpt:  "Sekolah membuka program beasiswa prestasi untuk siswa yang memiliki prestasi akademik dan non-akademik outstanding.",
		Content:  "Dalam rangka mendukung siswa berprestasi, SMA Negeri 1 Jakarta membuka program beasiswa prestasi untuk tahun ajaran 2025. Program ini ditujukan untuk siswa yang memiliki prestasi akademik maupun non-akademik yang luar biasa.",
		Category: model.NewsCategoryPengumuman,
		Author:   "Kepala Sekolah",
	}},
	{views: 312, input: model.NewsInput{
		Title:    "Festival Seni dan Budaya Sekolah 2024 Sukses Digelar",
		Excerpt:  "Acara tahunan Festival Seni dan Budaya berhasil menampilkan berbagai kreativitas siswa dalam bidang seni, musik, dan tari tradisional.",
		Content:  "Festival Seni dan Budaya SMA Negeri 1 Jakarta tahun 2024 telah sukses digelar dengan antusiasme tinggi dari seluruh siswa. Acara ini menampilkan berbagai pertunjukan mulai dari tari tradisional, musik modern, drama, hingga pameran karya seni rupa siswa.",
		Category: model.NewsCategoryKegiatan,
		Author:   "Koordinator Ekstrakurikuler",
		Featured: true,
	}},
	{views: 189, input: model.NewsInput{
		Title:    "Pelaksanaan Ujian Tengah Semester Ganjil Tahun Ajaran 2024/2025",
		Excerpt:  "Ujian Tengah Semester akan dilaksanakan mulai tanggal 20-25 Januari 2025 dengan protokol kesehatan yang ketat.",
		Content:  "Sekolah mengumumkan jadwal pelaksanaan Ujian Tengah Semester Ganjil untuk semua tingkat kelas. Ujian akan berlangsung selama 6 hari dengan sistem shift untuk menghindari kepadatan. Semua siswa diwajibkan hadir tepat waktu dan membawa perlengkapan ujian yang diperlukan.",
		Category: model.NewsCategoryAkademik,
		Author:   "Wakil Kepala Sekolah",
	}},
	{views: 245, input: model.NewsInput{
		Title:    "Prestasi Gemilang Siswa SMA Negeri 1 Jakarta di Olimpiade Matematika Nasional",
		Excerpt:  "Tim olimpiade matematika sekolah berhasil meraih juara 1 tingkat nasional setelah melalui seleksi ketat dari berbagai daerah di Indonesia.",
		Content:  "Tim olimpiade matematika SMA Negeri 1 Jakarta berhasil meraih prestasi gemilang dengan meraih juara 1 pada Olimpiade Matematika Nasional 2024. Prestasi ini diraih setelah melalui berbagai tahap seleksi yang ketat mulai dari tingkat sekolah, kabupaten, provinsi, hingga nasional. Tim yang terdiri dari 3 siswa terbaik ini telah mempersiapkan diri selama berbulan-bulan dengan bimbingan intensif dari guru pembimbing. Kepala sekolah menyampaikan rasa bangga dan apresiasi tinggi atas pencapaian luar biasa ini.",
		Category: model.NewsCategoryPrestasi,
		Author:   "Admin Sekolah",
		Featured: true,
	}},
}

func seedNews(ctx context.Context, repo core.NewsRepository) (int, error) {
	if repo == nil {
		return 0, nil
	}
	n, err := repo.Count(ctx, model.NewsListOptions{})
	if err != nil || n > 0 {
		return 0, err
	}
	for i, s := range newsSeeds {
		in := s.input
		in.Status = model.NewsStatusPublished
		created, err := repo.Create(ctx, &in)
		if err != nil {
			return i, fmt.Errorf("seed news %q: %w", in.Title, err)
		}
		for range s.views {
			if err := repo.IncrementViews(ctx, created.ID); err != nil {
				return i + 1, fmt.Errorf("seed news views: %w", err)
			}
		}
	}
	return len(newsSeeds), nil
}

func placeholder(size, color, text string) string {
	return "https://via.placeholder.com/" + size + "/" + color + "/FFFFFF?text=" + text
}

// Gallery returns the sample photos, oldest first.
func Gallery() []model.GalleryInput {
	item := func(title, desc string, cat model.GalleryCategory, img string, featured bool) model.GalleryInput {
		return model.GalleryInput{
			Title: title, Description: desc, Category: cat, ImageURL: img,
			UploadedBy: "Admin Sekolah", Featured: featured,
		}
	}
	return []model.GalleryInput{
		item("Kegiatan Bakti Sosial", "Siswa dan guru saat melakukan kegiatan bakti sosial di masyarakat",
			model.GalleryCategoryKegiatanKhusus, placeholder("600x400", "14B8A6", "Bakti+Sosial"), false),
		item("Pentas Seni Musik", "Penampilan band sekolah dalam acara pentas seni musik",
			model.GalleryCategoryKegiatanKhusus, placeholder("600x400", "EC4899", "Pentas+Seni+Musik"), false),
		item("Ruang Kelas Modern", "Suasana pembelajaran di ruang kelas dengan fasilitas modern",
			model.GalleryCategoryFasilitas, placeholder("600x400", "A855F7", "Ruang+Kelas+Modern"), false),
		item("Kegiatan Pramuka", "Kegiatan perkemahan pramuka di alam terbuka",
			model.GalleryCategoryEkstrakurikuler, placeholder("600x400", "22C55E", "Kegiatan+Pramuka"), false),
		item("Lomba Karya Tulis Ilmiah", "Presentasi siswa dalam lomba karya tulis ilmiah tingkat provinsi",
			model.GalleryCategoryPrestasi, placeholder("600x400", "F97316", "Karya+Tulis+Ilmiah"), false),
		item("Kunjungan Industri", "Siswa kelas XII saat melakukan kunjungan industri ke perusahaan teknologi",
			model.GalleryCategoryKegiatanKhusus, placeholder("600x400", "84CC16", "Kunjungan+Industri"), false),
		item("Perpustakaan Digital", "Suasana belajar siswa di perpustakaan dengan fasilitas digital terbaru",
			model.GalleryCategoryFasilitas, placeholder("600x400", "06B6D4", "Perpustakaan+Digital"), false),
		item("Kegiatan Ekstrakurikuler Basket", "Latihan rutin tim basket sekolah di lapangan olahraga",
			model.GalleryCategoryEkstrakurikuler, placeholder("600x400", "EF4444", "Ekstrakurikuler+Basket"), false),
		item("Laboratorium Komputer Baru", "Fasilitas laboratorium komputer yang baru direnovasi dengan perangkat modern",
			model.GalleryCategoryFasilitas, placeholder("600x400", "8B5CF6", "Lab+Komputer"), false),
		item("Olimpiade Matematika Nasional", "Tim olimpiade matematika sekolah saat mengikuti kompetisi tingkat nasional",
			model.GalleryCategoryPrestasi, placeholder("800x600", "F59E0B", "Olimpiade+Matematika"), true),
		item("Festival Seni dan Budaya 2024", "Penampilan tari tradisional dalam acara festival seni dan budaya tahunan",
			model.GalleryCategoryKegiatanKhusus, placeholder("800x600", "10B981", "Festival+Seni"), true),
		item("Upacara Bendera Hari Senin", "Kegiatan rutin upacara bendera setiap hari Senin di halaman sekolah",
			model.GalleryCategoryKegiatanRutin, placeholder("800x600", "3B82F6", "Upacara+Bendera"), true),
	}
}

func seedGallery(ctx context.Context, repo core.GalleryRepository) (int, error) {
	if repo == nil {
		return 0, nil
	}
	n, err := repo.Count(ctx, model.GalleryListOptions{})
	if err != nil || n > 0 {
		return 0, err
	}
	items := Gallery()
	for i := range items {
		if _, err := repo.Create(ctx, &items[i]); err != nil {
			return i, fmt.Errorf("seed gallery %q: %w", items[i].Title, err)
		}
	}
	return len(items), nil
}

type contactSeed struct {
	input  model.ContactInput
	status model.ContactStatus
}

var contactSeeds = []contactSeed{
	{status: model.ContactStatusResolved, input: model.ContactInput{
		Name: "Budi Santoso", Phone: "083456789012", Email: "budi.santoso@email.com",
		Subject:  "Pembayaran SPP",
		Message:  "Saya ingin menanyakan tentang cara pembayaran SPP online dan jadwal pembayaran untuk bulan ini.",
		Category: model.ContactCategoryAdministrasi, Priority: model.ContactPriorityRendah,
	}},
	{status: model.ContactStatusResponded, input: model.ContactInput{
		Name: "Siti Nurhaliza", Phone: "082345678901", Email: "siti.nurhaliza@email.com",
		Subject:  "Konsultasi Nilai Rapor",
		Message:  "Mohon bantuan untuk konsultasi mengenai nilai rapor anak saya yang mengalami penurunan di semester ini.",
		Category: model.ContactCategoryAkademik, Priority: model.ContactPrioritySedang,
	}},
	{status: model.ContactStatusPending, input: model.ContactInput{
		Name: "Ahmad Rizki", Phone: "081234567890", Email: "ahmad.rizki@email.com",
		Subject:  "Informasi Pendaftaran Siswa Baru",
		Message:  "Saya ingin menanyakan tentang syarat dan jadwal pendaftaran siswa baru untuk tahun ajaran 2024/2025.",
		Category: model.ContactCategoryPendaftaran, Priority: model.ContactPriorityTinggi,
	}},
}

func seedContacts(ctx context.Context, repo core.ContactRepository) (int, error) {
	if repo == nil {
		return 0, nil
	}
	counts, err := repo.CountByStatus(ctx)
	if err != nil || counts.Total() > 0 {
		return 0, err
	}
	for i, s := range contactSeeds {
		in := s.input
		c, err := repo.Create(ctx, &in)
		if err != nil {
			return i, fmt.Errorf("seed contact %q: %w", in.Subject, err)
		}
		if s.status != model.ContactStatusPending {
			if err := repo.UpdateStatus(ctx, c.ID, s.status); err != nil {
				return i + 1, fmt.Errorf("seed contact status: %w", err)
			}
		}
	}
	return len(contactSeeds), nil
}

// Users returns the sample console accounts without passwords.
func Users() []model.UserInput {
	return []model.UserInput{
		{Name: "Dr. Ahmad Wijaya, M.Pd", Email: "ahmad.wijaya@sman1jakarta.sch.id", Role: domainauth.RoleKepalaSekolah, Status: model.UserStatusActive},
		{Name: "Siti Nurhaliza, S.Pd", Email: "siti.nurhaliza@sman1jakarta.sch.id", Role: domainauth.RoleGuru, Status: model.UserStatusActive},
		{Name: "Budi Santoso", Email: "budi.santoso@sman1jakarta.sch.id", Role: domainauth.RoleAdmin, Status: model.UserStatusActive},
		{Name: "Maya Sari, S.Pd", Email: "maya.sari@sman1jakarta.sch.id", Role: domainauth.RoleGuru, Status: model.UserStatusInactive},
		{Name: "Andi Pratama", Email: "andi.pratama@sman1jakarta.sch.id", Role: domainauth.RoleStaff, Status: model.UserStatusActive},
	}
}

func seedUsers(ctx context.Context, repo core.UserRepository) (int, error) {
	if repo == nil {
		return 0, nil
	}
	existing, err := repo.List(ctx, model.UserListOptions{Limit: 1})
	if err != nil || len(existing) > 0 {
		return 0, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultUserPassword), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash seed password: %w", err)
	}
	users := Users()
	for i, u := range users {
		if _, err := repo.Create(ctx, core.CreateUserParams{Input: u, PasswordHash: string(hash)}); err != nil {
			return i, fmt.Errorf("seed user %q: %w", u.Email, err)
		}
	}
	return len(users), nil
}
